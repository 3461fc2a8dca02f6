package dashboard

import (
	"context"
	"time"
)

// EmployeeStats combines employee counts in a single query
type EmployeeStats struct {
	Active             int64
	Inactive           int64
	BirthdaysThisMonth int64
	NewLast30Days      int64
}

// ShipmentStatusCount is a status and its count
type ShipmentStatusCount struct {
	Status string
	Count  int64
}

// DueShipment is a shipment joined with its employee name
type DueShipment struct {
	ShipmentID   string
	EmployeeName string
	Status       string
	TriggerDate  time.Time
	BirthdayDate time.Time
}

type DashboardRepository interface {
	GetEmployeeStats(ctx context.Context, organizationID string, today time.Time) (EmployeeStats, error)
	GetShipmentStatusCounts(ctx context.Context, organizationID string, year int) ([]ShipmentStatusCount, error)
	// GetDueShipments lists open shipments with trigger_date up to until, soonest first
	GetDueShipments(ctx context.Context, organizationID string, until time.Time, limit int) ([]DueShipment, error)
}
