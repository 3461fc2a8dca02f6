package report

import (
	"context"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// ShipmentRows returns every shipment of the year joined with employee and gift, ordered by birthday
	ShipmentRows(ctx context.Context, organizationID string, req ShipmentReportRequest) ([]shipment.ShipmentDetail, error)
}
