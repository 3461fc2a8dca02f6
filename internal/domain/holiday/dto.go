package holiday

import (
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

const (
	SourceNational     = "national"
	SourceConfigured   = "configured"
	SourceOrganization = "organization"
)

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`

	DateParsed time.Time `json:"-"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	} else {
		r.DateParsed = d
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 150 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 150 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID     *string `json:"id,omitempty"`
	Date   string  `json:"date"`
	Name   string  `json:"name"`
	Source string  `json:"source"`
}

type TriggerDateRequest struct {
	Birthday string
	Lead     int

	BirthdayParsed time.Time
}

func (r *TriggerDateRequest) Validate() error {
	var errs validator.ValidationErrors

	if d, ok := validator.IsValidDate(r.Birthday); !ok {
		errs = append(errs, validator.ValidationError{Field: "birthday", Message: "birthday must be in YYYY-MM-DD format"})
	} else {
		r.BirthdayParsed = d
	}
	if r.Lead < 0 || r.Lead > 30 {
		errs = append(errs, validator.ValidationError{Field: "lead", Message: "lead must be between 0 and 30"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TriggerDateResponse struct {
	Birthday         string   `json:"birthday"`
	LeadBusinessDays int      `json:"lead_business_days"`
	TriggerDate      string   `json:"trigger_date"`
	SkippedHolidays  []string `json:"skipped_holidays"`
}
