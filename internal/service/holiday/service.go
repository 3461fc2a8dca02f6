package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// national is the reference used to tell built-in holidays from configured ones
var national = calendar.New()

// HolidayServiceImpl serves the holiday endpoints and builds organization calendars.
type HolidayServiceImpl struct {
	holiday.HolidayRepository
	shipmentRepo     shipment.ShipmentRepository
	base             *calendar.Calendar
	leadBusinessDays int
}

// NewHolidayService returns the service. base carries the national and configured
// holidays shared by every organization. Pending shipments of shipmentRepository
// are re-planned whenever an organization holiday is added or removed.
func NewHolidayService(holidayRepository holiday.HolidayRepository, shipmentRepository shipment.ShipmentRepository, base *calendar.Calendar, leadBusinessDays int) *HolidayServiceImpl {
	if base == nil {
		base = calendar.New()
	}
	return &HolidayServiceImpl{
		HolidayRepository: holidayRepository,
		shipmentRepo:      shipmentRepository,
		base:              base,
		leadBusinessDays:  leadBusinessDays,
	}
}

// CalendarFor implements holiday.CalendarProvider.
func (s *HolidayServiceImpl) CalendarFor(ctx context.Context, organizationID string, from, to time.Time) (*calendar.Calendar, error) {
	own, err := s.HolidayRepository.ListBetween(ctx, organizationID, calendar.Date(from), calendar.Date(to))
	if err != nil {
		return nil, fmt.Errorf("failed to load organization holidays: %w", err)
	}
	if len(own) == 0 {
		return s.base, nil
	}

	extra := make([]calendar.Holiday, 0, len(own))
	for _, h := range own {
		extra = append(extra, calendar.Holiday{Date: h.Date, Name: h.Name})
	}
	return s.base.With(extra...), nil
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !validator.IsValidYear(year) {
		return nil, validator.ValidationErrors{{Field: "year", Message: "year must be between 1900 and 2200"}}
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	own, err := s.HolidayRepository.ListBetween(ctx, identity.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]holiday.HolidayResponse)
	for _, h := range s.base.Holidays(year) {
		source := holiday.SourceConfigured
		if name, ok := national.HolidayName(h.Date); ok && name == h.Name {
			source = holiday.SourceNational
		}
		byDate[h.Date] = holiday.HolidayResponse{Date: h.Date.Format(dateLayout), Name: h.Name, Source: source}
	}
	for _, h := range own {
		id := h.ID
		d := calendar.Date(h.Date)
		byDate[d] = holiday.HolidayResponse{ID: &id, Date: d.Format(dateLayout), Name: h.Name, Source: holiday.SourceOrganization}
	}

	responses := make([]holiday.HolidayResponse, 0, len(byDate))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if h, ok := byDate[d]; ok {
			responses = append(responses, h)
		}
	}
	return responses, nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	if !identity.HasPermission(user.PermissionHolidayManage) {
		return holiday.HolidayResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		OrganizationID: identity.OrganizationID,
		Date:           req.DateParsed,
		Name:           strings.TrimSpace(req.Name),
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	s.replanAround(ctx, identity.OrganizationID, created.Date)

	return holiday.HolidayResponse{
		ID:     &created.ID,
		Date:   calendar.Date(created.Date).Format(dateLayout),
		Name:   created.Name,
		Source: holiday.SourceOrganization,
	}, nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return err
	}
	if !identity.HasPermission(user.PermissionHolidayManage) {
		return user.ErrInsufficientPermissions
	}
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}

	deleted, err := s.HolidayRepository.Delete(ctx, identity.OrganizationID, id)
	if err != nil {
		return err
	}
	s.replanAround(ctx, identity.OrganizationID, deleted.Date)
	return nil
}

// replanAround recomputes the trigger date of pending shipments whose lead
// window contains day. The holiday change itself is already stored, so
// failures are only logged.
func (s *HolidayServiceImpl) replanAround(ctx context.Context, organizationID string, day time.Time) {
	moved, err := s.Replan(ctx, organizationID, day)
	if err != nil {
		slog.Error("Failed to re-plan shipments after holiday change", "organization_id", organizationID, "date", day.Format(dateLayout), "error", err)
		return
	}
	if moved > 0 {
		slog.Info("Re-planned shipments after holiday change", "organization_id", organizationID, "date", day.Format(dateLayout), "count", moved)
	}
}

// Replan moves the trigger date of every pending shipment of the organization
// whose birthday is close enough for day to fall in its lead window. It
// returns how many shipments changed.
func (s *HolidayServiceImpl) Replan(ctx context.Context, organizationID string, day time.Time) (int, error) {
	day = calendar.Date(day)
	last := calendar.TriggerWindowEnd(day, s.leadBusinessDays)

	affected, err := s.shipmentRepo.ListPendingByBirthday(ctx, organizationID, day, last)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending shipments: %w", err)
	}
	if len(affected) == 0 {
		return 0, nil
	}

	cal, err := s.CalendarFor(ctx, organizationID, calendar.TriggerWindowStart(day, s.leadBusinessDays), last)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, sh := range affected {
		trigger := cal.TriggerDate(sh.BirthdayDate, s.leadBusinessDays)
		if trigger.Equal(calendar.Date(sh.TriggerDate)) {
			continue
		}
		sh.TriggerDate = trigger
		if _, err := s.shipmentRepo.Update(ctx, sh, shipment.StatusPending); err != nil {
			if errors.Is(err, shipment.ErrShipmentChanged) {
				continue
			}
			return moved, fmt.Errorf("failed to re-plan shipment %s: %w", sh.ID, err)
		}
		moved++
	}
	return moved, nil
}

// TriggerDate implements holiday.HolidayService.
func (s *HolidayServiceImpl) TriggerDate(ctx context.Context, req holiday.TriggerDateRequest) (holiday.TriggerDateResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return holiday.TriggerDateResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return holiday.TriggerDateResponse{}, err
	}

	lead := req.Lead
	if lead == 0 {
		lead = s.leadBusinessDays
	}
	birthday := calendar.Date(req.BirthdayParsed)

	cal, err := s.CalendarFor(ctx, identity.OrganizationID, calendar.TriggerWindowStart(birthday, lead), birthday)
	if err != nil {
		return holiday.TriggerDateResponse{}, err
	}
	trigger := cal.TriggerDate(birthday, lead)

	skipped := []string{}
	for d := trigger.AddDate(0, 0, 1); d.Before(birthday); d = d.AddDate(0, 0, 1) {
		if calendar.IsWeekend(d) {
			continue
		}
		if name, ok := cal.HolidayName(d); ok {
			skipped = append(skipped, fmt.Sprintf("%s %s", d.Format(dateLayout), name))
		}
	}

	return holiday.TriggerDateResponse{
		Birthday:         birthday.Format(dateLayout),
		LeadBusinessDays: lead,
		TriggerDate:      trigger.Format(dateLayout),
		SkippedHolidays:  skipped,
	}, nil
}
