package shipment

import (
	"context"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
)

// Planner derives birthday and trigger dates of shipments from the organization calendar.
type Planner struct {
	calendars        holiday.CalendarProvider
	leadBusinessDays int
}

func NewPlanner(calendars holiday.CalendarProvider, leadBusinessDays int) *Planner {
	return &Planner{calendars: calendars, leadBusinessDays: leadBusinessDays}
}

// LeadBusinessDays is the configured lead time
func (p *Planner) LeadBusinessDays() int {
	return p.leadBusinessDays
}

// TriggerDate returns the trigger date of a single birthday for an organization.
func (p *Planner) TriggerDate(ctx context.Context, organizationID string, birthday time.Time) (time.Time, error) {
	triggers, err := p.TriggerDates(ctx, organizationID, []time.Time{birthday})
	if err != nil {
		return time.Time{}, err
	}
	return triggers[0], nil
}

// TriggerDates computes the trigger dates of several birthdays of one
// organization, loading its calendar once.
func (p *Planner) TriggerDates(ctx context.Context, organizationID string, birthdays []time.Time) ([]time.Time, error) {
	if len(birthdays) == 0 {
		return nil, nil
	}

	first, last := calendar.Date(birthdays[0]), calendar.Date(birthdays[0])
	for _, b := range birthdays[1:] {
		b = calendar.Date(b)
		if b.Before(first) {
			first = b
		}
		if b.After(last) {
			last = b
		}
	}

	cal, err := p.calendars.CalendarFor(ctx, organizationID, calendar.TriggerWindowStart(first, p.leadBusinessDays), last)
	if err != nil {
		return nil, err
	}

	triggers := make([]time.Time, len(birthdays))
	for i, b := range birthdays {
		triggers[i] = cal.TriggerDate(b, p.leadBusinessDays)
	}
	return triggers, nil
}

// Plan builds the pending shipment of emp for the birthday falling in year.
func (p *Planner) Plan(ctx context.Context, emp employee.Employee, year int) (shipment.GiftShipment, error) {
	birthday := calendar.BirthdayInYear(emp.BirthDate, year)
	trigger, err := p.TriggerDate(ctx, emp.OrganizationID, birthday)
	if err != nil {
		return shipment.GiftShipment{}, err
	}
	return newShipment(emp, year, birthday, trigger), nil
}

// PlanYear builds the shipments of year for employees of one organization,
// loading the organization calendar once.
func (p *Planner) PlanYear(ctx context.Context, organizationID string, employees []employee.Employee, year int) ([]shipment.GiftShipment, error) {
	if len(employees) == 0 {
		return nil, nil
	}

	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	cal, err := p.calendars.CalendarFor(ctx, organizationID, calendar.TriggerWindowStart(first, p.leadBusinessDays), last)
	if err != nil {
		return nil, err
	}

	planned := make([]shipment.GiftShipment, 0, len(employees))
	for _, emp := range employees {
		birthday := calendar.BirthdayInYear(emp.BirthDate, year)
		planned = append(planned, newShipment(emp, year, birthday, cal.TriggerDate(birthday, p.leadBusinessDays)))
	}
	return planned, nil
}

func newShipment(emp employee.Employee, year int, birthday, trigger time.Time) shipment.GiftShipment {
	return shipment.GiftShipment{
		OrganizationID: emp.OrganizationID,
		EmployeeID:     emp.ID,
		Year:           year,
		Status:         shipment.StatusPending,
		BirthdayDate:   birthday,
		TriggerDate:    trigger,
	}
}
