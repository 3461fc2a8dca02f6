package shipment

import (
	"context"
	"time"
)

type ShipmentRepository interface {
	Create(ctx context.Context, s GiftShipment) (GiftShipment, error)
	// CreateMissing inserts the shipments that do not exist yet and returns how many were added
	CreateMissing(ctx context.Context, shipments []GiftShipment) (int, error)
	GetByID(ctx context.Context, organizationID string, id string) (GiftShipment, error)
	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (GiftShipment, error)
	List(ctx context.Context, organizationID string, filter ShipmentFilter) ([]ShipmentDetail, int64, error)
	// Update writes s only while the stored status is still expected. A row that
	// moved on meanwhile yields an error wrapping ErrInvalidTransition.
	Update(ctx context.Context, s GiftShipment, expected Status) (GiftShipment, error)
	// ListDue returns pending shipments with trigger_date on or before day and a
	// birthday not yet passed. A nil organizationID lists every organization.
	ListDue(ctx context.Context, day time.Time, organizationID *string) ([]GiftShipment, error)
	// ListPendingByBirthday returns pending shipments of an organization with a
	// birthday in [from, to]
	ListPendingByBirthday(ctx context.Context, organizationID string, from, to time.Time) ([]GiftShipment, error)
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]GiftShipment, error)
}
