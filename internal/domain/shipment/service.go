package shipment

import (
	"context"
	"time"
)

type ShipmentService interface {
	List(ctx context.Context, filter ShipmentFilter) (ListShipmentResponse, error)
	Get(ctx context.Context, id string) (ShipmentResponse, error)
	Update(ctx context.Context, req UpdateShipmentRequest) (ShipmentResponse, error)
	Advance(ctx context.Context, id string, next Status) (ShipmentResponse, error)
	Cancel(ctx context.Context, req CancelShipmentRequest) (ShipmentResponse, error)
	GenerateYear(ctx context.Context, req GenerateYearRequest) (GenerateYearResponse, error)
	// ProcessDue moves the caller organization's pending shipments whose trigger date is on or
	// before day to ready_to_ship
	ProcessDue(ctx context.Context, day time.Time) (ProcessDueResponse, error)
	// ProcessDueForAll does the same across every organization; used by jobs and the CLI
	ProcessDueForAll(ctx context.Context, day time.Time) (ProcessDueResponse, error)
	// GenerateYearForAll creates missing shipments for every organization; used by jobs and the CLI
	GenerateYearForAll(ctx context.Context, year int) (int, error)
}
