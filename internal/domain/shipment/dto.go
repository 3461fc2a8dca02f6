package shipment

import (
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ShipmentDetail is a shipment joined with its employee and gift
type ShipmentDetail struct {
	GiftShipment
	EmployeeName       string
	EmployeeDepartment string
	EmployeeRole       string
	EmployeeBirthDate  time.Time
	GiftName           *string
	GiftPrice          *decimal.Decimal
}

type ShipmentFilter struct {
	Year       *int
	Status     *Status
	EmployeeID *string
	Search     *string
	DueBefore  *time.Time
	Page       int
	Limit      int
}

func (f *ShipmentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.Year != nil && !validator.IsValidYear(*f.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be between 1900 and 2200"})
	}
	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, ready_to_ship, shipped, delivered, cancelled"})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShipmentRequest struct {
	ID     string  `json:"-"`
	GiftID *string `json:"gift_id"`
	Notes  *string `json:"notes"`
}

func (r *UpdateShipmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.GiftID != nil && *r.GiftID != "" && !validator.IsValidUUID(*r.GiftID) {
		errs = append(errs, validator.ValidationError{Field: "gift_id", Message: "gift_id must be a valid UUID"})
	}
	if r.Notes != nil && len(*r.Notes) > 2000 {
		errs = append(errs, validator.ValidationError{Field: "notes", Message: "notes must not exceed 2000 characters"})
	}
	if r.GiftID == nil && r.Notes == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "gift_id or notes is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelShipmentRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *CancelShipmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateYearRequest struct {
	Year int `json:"year"`
}

func (r *GenerateYearRequest) Validate() error {
	if !validator.IsValidYear(r.Year) {
		return validator.ValidationErrors{{Field: "year", Message: "year must be between 1900 and 2200"}}
	}
	return nil
}

type GenerateYearResponse struct {
	Year    int `json:"year"`
	Created int `json:"created"`
}

type ProcessDueResponse struct {
	Date        string   `json:"date"`
	Processed   int      `json:"processed"`
	ShipmentIDs []string `json:"shipment_ids"`
}

type ShipmentResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Department   string     `json:"department,omitempty"`
	Year         int        `json:"year"`
	Status       Status     `json:"status"`
	BirthdayDate string     `json:"birthday_date"`
	TriggerDate  string     `json:"trigger_date"`
	GiftID       *string    `json:"gift_id,omitempty"`
	GiftName     *string    `json:"gift_name,omitempty"`
	GiftPrice    *string    `json:"gift_price,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	NextStatuses []Status   `json:"next_statuses"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ListShipmentResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Shipments  []ShipmentResponse `json:"shipments"`
}

// ToResponse converts a shipment without joined data
func ToResponse(s GiftShipment) ShipmentResponse {
	next := transitions[s.Status]
	if next == nil {
		next = []Status{}
	}
	return ShipmentResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		Year:         s.Year,
		Status:       s.Status,
		BirthdayDate: s.BirthdayDate.Format(dateLayout),
		TriggerDate:  s.TriggerDate.Format(dateLayout),
		GiftID:       s.GiftID,
		SentAt:       s.SentAt,
		DeliveredAt:  s.DeliveredAt,
		CancelledAt:  s.CancelledAt,
		Notes:        s.Notes,
		NextStatuses: next,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// DetailToResponse converts a joined shipment row
func DetailToResponse(d ShipmentDetail) ShipmentResponse {
	resp := ToResponse(d.GiftShipment)
	resp.EmployeeName = d.EmployeeName
	resp.Department = d.EmployeeDepartment
	resp.GiftName = d.GiftName
	if d.GiftPrice != nil {
		price := d.GiftPrice.StringFixed(2)
		resp.GiftPrice = &price
	}
	return resp
}
