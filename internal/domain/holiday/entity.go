package holiday

import "time"

// Holiday is an organization-specific non-working day
type Holiday struct {
	ID             string
	OrganizationID string
	Date           time.Time
	Name           string
	CreatedAt      time.Time
}
