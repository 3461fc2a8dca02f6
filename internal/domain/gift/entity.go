package gift

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gift is a catalog item an organization can assign to shipments
type Gift struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	Price          decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
