package employee

import (
	"time"
)

type Employee struct {
	ID             string
	OrganizationID string
	FullName       string
	BirthDate      time.Time
	Role           string
	Department     string
	Email          *string
	IsActive       bool
	Address        *Address
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeactivatedAt  *time.Time
}

// Address is owned by exactly one employee and replaced as a whole on update
type Address struct {
	EmployeeID   string
	CEP          string
	Street       string
	Number       string
	Complement   *string
	Neighborhood string
	City         string
	State        string
}
