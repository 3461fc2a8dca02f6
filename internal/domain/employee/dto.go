package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

type AddressRequest struct {
	CEP          string  `json:"cep"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
}

func (a *AddressRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if !validator.IsValidCEP(a.CEP) {
		errs = append(errs, validator.ValidationError{Field: "address.cep", Message: "cep must have 8 digits (e.g. 01310-100)"})
	}
	if validator.IsEmpty(a.Street) {
		errs = append(errs, validator.ValidationError{Field: "address.street", Message: "street is required"})
	} else if len(a.Street) > 255 {
		errs = append(errs, validator.ValidationError{Field: "address.street", Message: "street must not exceed 255 characters"})
	}
	if validator.IsEmpty(a.Number) {
		errs = append(errs, validator.ValidationError{Field: "address.number", Message: "number is required"})
	} else if len(a.Number) > 20 {
		errs = append(errs, validator.ValidationError{Field: "address.number", Message: "number must not exceed 20 characters"})
	}
	if a.Complement != nil && len(*a.Complement) > 100 {
		errs = append(errs, validator.ValidationError{Field: "address.complement", Message: "complement must not exceed 100 characters"})
	}
	if validator.IsEmpty(a.Neighborhood) {
		errs = append(errs, validator.ValidationError{Field: "address.neighborhood", Message: "neighborhood is required"})
	}
	if validator.IsEmpty(a.City) {
		errs = append(errs, validator.ValidationError{Field: "address.city", Message: "city is required"})
	}
	if !validator.IsValidUF(a.State) {
		errs = append(errs, validator.ValidationError{Field: "address.state", Message: "state must be a valid UF (e.g. SP)"})
	}

	return errs
}

// ToAddress normalizes the request into an Address
func (a *AddressRequest) ToAddress(employeeID string) Address {
	return Address{
		EmployeeID:   employeeID,
		CEP:          validator.NormalizeCEP(a.CEP),
		Street:       strings.TrimSpace(a.Street),
		Number:       strings.TrimSpace(a.Number),
		Complement:   a.Complement,
		Neighborhood: strings.TrimSpace(a.Neighborhood),
		City:         strings.TrimSpace(a.City),
		State:        strings.ToUpper(a.State),
	}
}

type CreateEmployeeRequest struct {
	FullName   string          `json:"full_name"`
	BirthDate  string          `json:"birth_date"`
	Role       string          `json:"role"`
	Department string          `json:"department"`
	Email      *string         `json:"email,omitempty"`
	Address    *AddressRequest `json:"address"`

	// Parsed in Validate
	BirthDateParsed time.Time `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validateEmployeeFields(r.FullName, r.BirthDate, r.Role, r.Department, r.Email, r.Address, &r.BirthDateParsed)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID         string          `json:"-"`
	FullName   string          `json:"full_name"`
	BirthDate  string          `json:"birth_date"`
	Role       string          `json:"role"`
	Department string          `json:"department"`
	Email      *string         `json:"email,omitempty"`
	Address    *AddressRequest `json:"address"`

	BirthDateParsed time.Time `json:"-"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validateEmployeeFields(r.FullName, r.BirthDate, r.Role, r.Department, r.Email, r.Address, &r.BirthDateParsed)
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateEmployeeFields(fullName, birthDate, role, department string, email *string, address *AddressRequest, parsed *time.Time) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(fullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	} else if len(fullName) > 255 {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name must not exceed 255 characters"})
	}

	if validator.IsEmpty(birthDate) {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date is required"})
	} else if d, ok := validator.IsValidDate(birthDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date must be in YYYY-MM-DD format"})
	} else if d.After(time.Now()) {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date cannot be in the future"})
	} else if d.Year() < 1900 {
		errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date must be after 1900-01-01"})
	} else {
		*parsed = d
	}

	if validator.IsEmpty(role) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role is required"})
	} else if len(role) > 100 {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must not exceed 100 characters"})
	}
	if validator.IsEmpty(department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department is required"})
	} else if len(department) > 100 {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "department must not exceed 100 characters"})
	}

	if email != nil && !validator.IsEmpty(*email) && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}

	if address == nil {
		errs = append(errs, validator.ValidationError{Field: "address", Message: "address is required"})
	} else {
		errs = append(errs, address.validate()...)
	}

	return errs
}

type EmployeeFilter struct {
	Search     *string
	Department *string
	IsActive   *bool
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

var allowedSortFields = []string{"full_name", "birth_date", "department", "created_at"}

func (f *EmployeeFilter) Validate() error {
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
	if f.SortBy == "" {
		f.SortBy = "full_name"
	} else if !validator.IsInSlice(f.SortBy, allowedSortFields) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: full_name, birth_date, department, created_at"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	} else if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpcomingBirthdaysRequest struct {
	Days int
}

func (r *UpcomingBirthdaysRequest) Validate() error {
	if r.Days == 0 {
		r.Days = 30
	}
	if r.Days < 1 || r.Days > 366 {
		return validator.ValidationErrors{{Field: "days", Message: "days must be between 1 and 366"}}
	}
	return nil
}

type AddressResponse struct {
	CEP          string  `json:"cep"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
}

type EmployeeResponse struct {
	ID                string           `json:"id"`
	FullName          string           `json:"full_name"`
	BirthDate         string           `json:"birth_date"`
	Role              string           `json:"role"`
	Department        string           `json:"department"`
	Email             *string          `json:"email,omitempty"`
	IsActive          bool             `json:"is_active"`
	Address           *AddressResponse `json:"address,omitempty"`
	NextBirthday      string           `json:"next_birthday"`
	DaysUntilBirthday int              `json:"days_until_birthday"`
	TurningAge        int              `json:"turning_age"`
	TriggerDate       string           `json:"trigger_date"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeactivatedAt     *time.Time       `json:"deactivated_at,omitempty"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

type UpcomingBirthdayResponse struct {
	EmployeeID  string `json:"employee_id"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	Role        string `json:"role"`
	Birthday    string `json:"birthday"`
	DaysUntil   int    `json:"days_until"`
	TurningAge  int    `json:"turning_age"`
	TriggerDate string `json:"trigger_date"`
}
