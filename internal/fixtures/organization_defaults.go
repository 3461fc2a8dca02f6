package fixtures

import (
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/gift"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

// DefaultGifts returns the starter catalog seeded for a new organization
func DefaultGifts(organizationID string) []gift.Gift {
	return []gift.Gift{
		{
			OrganizationID: organizationID,
			Name:           "Cesta de café da manhã",
			Description:    strPtr("Cesta com pães, frutas, geleias e café especial"),
			Price:          decimal.RequireFromString("149.90"),
			IsActive:       true,
		},
		{
			OrganizationID: organizationID,
			Name:           "Vale-presente livraria",
			Description:    strPtr("Cartão-presente digital para livrarias parceiras"),
			Price:          decimal.RequireFromString("100.00"),
			IsActive:       true,
		},
		{
			OrganizationID: organizationID,
			Name:           "Kit chocolates artesanais",
			Description:    strPtr("Caixa com 12 bombons artesanais"),
			Price:          decimal.RequireFromString("89.50"),
			IsActive:       true,
		},
	}
}
