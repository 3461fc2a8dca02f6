package gift

import "context"

type GiftRepository interface {
	Create(ctx context.Context, g Gift) (Gift, error)
	GetByID(ctx context.Context, organizationID string, id string) (Gift, error)
	List(ctx context.Context, organizationID string, activeOnly bool) ([]Gift, error)
	Update(ctx context.Context, g Gift) (Gift, error)
	Delete(ctx context.Context, organizationID string, id string) error
	IsReferenced(ctx context.Context, id string) (bool, error)
}
