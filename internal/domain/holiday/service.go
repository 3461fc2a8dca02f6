package holiday

import (
	"context"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
)

type HolidayService interface {
	// List returns the effective calendar for a year: national, configured and organization holidays
	List(ctx context.Context, year int) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	// TriggerDate previews the trigger date of a birthday with the organization calendar
	TriggerDate(ctx context.Context, req TriggerDateRequest) (TriggerDateResponse, error)
}

// CalendarProvider builds the business-day calendar of an organization
type CalendarProvider interface {
	CalendarFor(ctx context.Context, organizationID string, from, to time.Time) (*calendar.Calendar, error)
}
