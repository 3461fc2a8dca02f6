// Package calendar implements the civil-date arithmetic behind gift scheduling:
// birthday occurrences and business-day offsets over a holiday calendar.
//
// Every function works on civil dates. Inputs are reduced to midnight UTC of
// their calendar day (in the input's own location) before any arithmetic, so a
// time.Time taken from time.Now().In(loc) yields the local calendar day.
package calendar

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

// Date returns midnight UTC of t's calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Holiday is a single non-working day
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// RecurringHoliday repeats on the same month and day every year
type RecurringHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// Calendar decides which days are business days.
// A Calendar is immutable after construction and safe for concurrent use.
type Calendar struct {
	national  bool
	recurring []RecurringHoliday
	dated     map[time.Time]string
}

// Option configures a Calendar
type Option func(*Calendar)

// WithoutNationalHolidays drops the built-in Brazilian national holidays.
func WithoutNationalHolidays() Option {
	return func(c *Calendar) {
		c.national = false
	}
}

// WithRecurring adds a holiday observed every year on month/day.
func WithRecurring(month time.Month, dayOfMonth int, name string) Option {
	return func(c *Calendar) {
		c.recurring = append(c.recurring, RecurringHoliday{Month: month, Day: dayOfMonth, Name: name})
	}
}

// WithHolidays adds one-off holidays.
func WithHolidays(holidays ...Holiday) Option {
	return func(c *Calendar) {
		for _, h := range holidays {
			c.dated[Date(h.Date)] = h.Name
		}
	}
}

// New builds a calendar with Brazilian national holidays plus the given options.
func New(opts ...Option) *Calendar {
	c := &Calendar{
		national: true,
		dated:    make(map[time.Time]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// With returns a copy of c extended with extra one-off holidays.
func (c *Calendar) With(holidays ...Holiday) *Calendar {
	clone := &Calendar{
		national:  c.national,
		recurring: append([]RecurringHoliday(nil), c.recurring...),
		dated:     make(map[time.Time]string, len(c.dated)+len(holidays)),
	}
	for d, name := range c.dated {
		clone.dated[d] = name
	}
	WithHolidays(holidays...)(clone)
	return clone
}

// HolidayName returns the holiday observed on d, if any.
func (c *Calendar) HolidayName(d time.Time) (string, bool) {
	d = Date(d)

	if name, ok := c.dated[d]; ok {
		return name, true
	}
	for _, r := range c.recurring {
		if d.Month() == r.Month && d.Day() == r.Day {
			return r.Name, true
		}
	}
	if c.national {
		if name, ok := nationalIndex(d.Year())[d]; ok {
			return name, true
		}
	}
	return "", false
}

// IsHoliday reports whether d is a holiday in c.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.HolidayName(d)
	return ok
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d time.Time) bool {
	wd := Date(d).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether d is a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	return !IsWeekend(d) && !c.IsHoliday(d)
}

// SubtractBusinessDays returns the date n business days before d.
// The start date itself is never counted. For n == 0 the result is d when d
// is a business day, otherwise the closest earlier business day.
func (c *Calendar) SubtractBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return c.AddBusinessDays(d, -n)
	}

	current := Date(d)
	if n == 0 {
		for !c.IsBusinessDay(current) {
			current = current.Add(-day)
		}
		return current
	}

	for counted := 0; counted < n; {
		current = current.Add(-day)
		if c.IsBusinessDay(current) {
			counted++
		}
	}
	return current
}

// AddBusinessDays returns the date n business days after d.
// For n == 0 the result is d when d is a business day, otherwise the closest
// later business day.
func (c *Calendar) AddBusinessDays(d time.Time, n int) time.Time {
	if n < 0 {
		return c.SubtractBusinessDays(d, -n)
	}

	current := Date(d)
	if n == 0 {
		for !c.IsBusinessDay(current) {
			current = current.Add(day)
		}
		return current
	}

	for counted := 0; counted < n; {
		current = current.Add(day)
		if c.IsBusinessDay(current) {
			counted++
		}
	}
	return current
}

// BusinessDaysBetween counts business days in the half-open range (from, to].
// The result is negative when to is before from.
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	from, to = Date(from), Date(to)
	if to.Before(from) {
		return -c.BusinessDaysBetween(to, from)
	}

	count := 0
	for current := from.Add(day); !current.After(to); current = current.Add(day) {
		if c.IsBusinessDay(current) {
			count++
		}
	}
	return count
}

// TriggerDate is the day a gift for birthday must be ready to ship:
// leadBusinessDays business days before the birthday.
func (c *Calendar) TriggerDate(birthday time.Time, leadBusinessDays int) time.Time {
	return c.SubtractBusinessDays(birthday, leadBusinessDays)
}

// Holidays lists every holiday observed in year, sorted by date.
func (c *Calendar) Holidays(year int) []Holiday {
	byDate := make(map[time.Time]string)

	if c.national {
		for _, h := range nationalHolidays(year) {
			byDate[h.Date] = h.Name
		}
	}
	for _, r := range c.recurring {
		d := time.Date(year, r.Month, r.Day, 0, 0, 0, 0, time.UTC)
		if d.Month() != r.Month {
			// Feb 29 in a non-leap year
			continue
		}
		byDate[d] = r.Name
	}
	for d, name := range c.dated {
		if d.Year() == year {
			byDate[d] = name
		}
	}

	holidays := make([]Holiday, 0, len(byDate))
	for d, name := range byDate {
		holidays = append(holidays, Holiday{Date: d, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// TriggerWindowStart is a lower bound for any trigger date of birthday with
// up to lead business days: one week per business day plus a month of slack
// for long holiday runs. Callers use it to bound holiday lookups.
func TriggerWindowStart(birthday time.Time, lead int) time.Time {
	if lead < 0 {
		lead = 0
	}
	return Date(birthday).AddDate(0, 0, -(lead*7 + 31))
}

// TriggerWindowEnd is the latest birthday whose trigger window, as bounded
// by TriggerWindowStart, still contains day.
func TriggerWindowEnd(day time.Time, lead int) time.Time {
	if lead < 0 {
		lead = 0
	}
	return Date(day).AddDate(0, 0, lead*7+31)
}
