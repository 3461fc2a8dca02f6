package gift

import "context"

type GiftService interface {
	List(ctx context.Context, activeOnly bool) ([]GiftResponse, error)
	Get(ctx context.Context, id string) (GiftResponse, error)
	Create(ctx context.Context, req CreateGiftRequest) (GiftResponse, error)
	Update(ctx context.Context, req UpdateGiftRequest) (GiftResponse, error)
	// Delete removes a gift, or deactivates it when shipments reference it
	Delete(ctx context.Context, id string) (deactivated bool, err error)
}
