package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmailExists             = errors.New("email already registered in this organization")
	ErrFutureDateNotAllowed    = errors.New("date cannot be in the future")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
)
