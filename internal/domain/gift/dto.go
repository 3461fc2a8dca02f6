package gift

import (
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxPrice = decimal.NewFromInt(10_000_000)

type CreateGiftRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

func (r *CreateGiftRequest) Validate() error {
	errs := validateGift(r.Name, r.Description, r.Price)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateGiftRequest struct {
	ID          string          `json:"-"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r *UpdateGiftRequest) Validate() error {
	errs := validateGift(r.Name, r.Description, r.Price)
	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateGift(name string, description *string, price decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(name) > 150 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 150 characters"})
	}
	if description != nil && len(*description) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "description", Message: "description must not exceed 1000 characters"})
	}
	if price.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must not be negative"})
	} else if price.GreaterThan(maxPrice) {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must not exceed 10000000"})
	} else if !price.Equal(price.Round(2)) {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must have at most 2 decimal places"})
	}

	return errs
}

type GiftResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToResponse(g Gift) GiftResponse {
	return GiftResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Price:       g.Price.StringFixed(2),
		IsActive:    g.IsActive,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
