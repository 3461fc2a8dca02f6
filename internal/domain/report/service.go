package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// ShipmentSummary aggregates a year of shipments
	ShipmentSummary(ctx context.Context, req ShipmentReportRequest) (ShipmentReport, error)

	// ExportShipmentsCSV writes a year of shipments as CSV
	ExportShipmentsCSV(ctx context.Context, req ShipmentReportRequest, w io.Writer) error
}
