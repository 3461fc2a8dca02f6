package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	// Delete removes the holiday and returns it
	Delete(ctx context.Context, organizationID string, id string) (Holiday, error)
	// ListBetween returns the organization's holidays in [from, to]
	ListBetween(ctx context.Context, organizationID string, from, to time.Time) ([]Holiday, error)
}
