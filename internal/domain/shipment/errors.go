package shipment

import (
	"errors"
	"fmt"
)

var (
	ErrShipmentNotFound  = errors.New("gift shipment not found")
	ErrShipmentExists    = errors.New("gift shipment already exists for this employee and year")
	ErrInvalidTransition = errors.New("invalid shipment status transition")
	ErrInvalidStatus     = errors.New("invalid shipment status")
	ErrGiftNotAvailable  = errors.New("gift is not available")
	ErrGiftLocked        = errors.New("gift can no longer be changed for this shipment")
	// ErrShipmentChanged means the stored status moved on after the shipment was loaded
	ErrShipmentChanged = fmt.Errorf("%w: gift shipment was changed by another request", ErrInvalidTransition)
)

// TransitionError describes a rejected status change
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move shipment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
