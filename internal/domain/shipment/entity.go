package shipment

import (
	"time"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusReadyToShip Status = "ready_to_ship"
	StatusShipped     Status = "shipped"
	StatusDelivered   Status = "delivered"
	StatusCancelled   Status = "cancelled"
)

// AllStatuses lists every status in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusPending, StatusReadyToShip, StatusShipped, StatusDelivered, StatusCancelled}
}

// transitions is the allowed lifecycle graph. Delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:     {StatusReadyToShip, StatusCancelled},
	StatusReadyToShip: {StatusShipped, StatusCancelled},
	StatusShipped:     {StatusDelivered, StatusCancelled},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReadyToShip, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// GiftShipment is the gift of one employee for one birthday year
type GiftShipment struct {
	ID             string
	OrganizationID string
	EmployeeID     string
	Year           int
	Status         Status
	TriggerDate    time.Time
	BirthdayDate   time.Time
	GiftID         *string
	SentAt         *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransitionTo moves the shipment to next and stamps the matching timestamp
func (g *GiftShipment) TransitionTo(next Status, at time.Time) error {
	if !g.Status.CanTransitionTo(next) {
		return &TransitionError{From: g.Status, To: next}
	}

	switch next {
	case StatusShipped:
		g.SentAt = &at
	case StatusDelivered:
		g.DeliveredAt = &at
	case StatusCancelled:
		g.CancelledAt = &at
	}
	g.Status = next
	return nil
}

// AppendNote adds a line to the shipment notes
func (g *GiftShipment) AppendNote(note string) {
	if note == "" {
		return
	}
	if g.Notes == nil || *g.Notes == "" {
		g.Notes = &note
		return
	}
	joined := *g.Notes + "\n" + note
	g.Notes = &joined
}

// IsOpen reports whether the shipment can still change status
func (g *GiftShipment) IsOpen() bool {
	return !g.Status.IsTerminal()
}

// IsDue reports whether a pending shipment reached its trigger date on day today.
// A shipment whose birthday already passed is never due.
func (g *GiftShipment) IsDue(today time.Time) bool {
	return g.Status == StatusPending && !g.TriggerDate.After(today) && !g.BirthdayDate.Before(today)
}
