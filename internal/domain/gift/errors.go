package gift

import "errors"

var (
	ErrGiftNotFound   = errors.New("gift not found")
	ErrGiftNameExists = errors.New("gift name already exists in this organization")
)
