package report

import (
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

// CSVHeader is the fixed column header of the shipment export
var CSVHeader = []string{
	"employee_name",
	"department",
	"role",
	"birth_date",
	"birthday",
	"trigger_date",
	"status",
	"gift",
	"gift_price",
	"sent_at",
	"delivered_at",
	"notes",
}

type ShipmentReportRequest struct {
	Year       int
	Department *string
	Status     *shipment.Status
}

func (r *ShipmentReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1900 and 2200"})
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, ready_to_ship, shipped, delivered, cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusCount is the number of shipments in one status
type StatusCount struct {
	Status shipment.Status `json:"status"`
	Count  int64           `json:"count"`
}

// MonthCount is the number of shipments whose birthday falls in one month
type MonthCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// DepartmentCost is the gift spend of one department
type DepartmentCost struct {
	Department string `json:"department"`
	Shipments  int64  `json:"shipments"`
	TotalCost  string `json:"total_cost"`
}

type ShipmentReport struct {
	Year            int              `json:"year"`
	TotalShipments  int64            `json:"total_shipments"`
	ByStatus        []StatusCount    `json:"by_status"`
	ByMonth         []MonthCount     `json:"by_month"`
	ByDepartment    []DepartmentCost `json:"by_department"`
	TotalGiftCost   string           `json:"total_gift_cost"`
	DeliveredOnTime int64            `json:"delivered_on_time"`
	GeneratedAt     string           `json:"generated_at"`
}
