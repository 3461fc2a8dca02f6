package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBirthday(t *testing.T) {
	cases := []struct {
		name  string
		birth string
		today string
		want  string
	}{
		{"later this year", "1990-12-25", "2025-06-01", "2025-12-25"},
		{"today", "1990-06-01", "2025-06-01", "2025-06-01"},
		{"already passed", "1990-05-31", "2025-06-01", "2026-05-31"},
		{"leap day in leap year", "2000-02-29", "2028-01-10", "2028-02-29"},
		{"leap day in common year", "2000-02-29", "2025-01-10", "2025-02-28"},
		{"leap day passed rolls into leap year", "2000-02-29", "2027-03-01", "2028-02-29"},
		{"new year's eve", "1985-12-31", "2025-12-31", "2025-12-31"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, date(tc.want), NextBirthday(date(tc.birth), date(tc.today)))
		})
	}
}

func TestNextBirthday_IgnoresClockTime(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	today := time.Date(2025, 6, 1, 23, 59, 0, 0, loc)

	assert.Equal(t, date("2025-06-01"), NextBirthday(date("1990-06-01"), today))
	assert.Equal(t, 0, DaysUntil(today, NextBirthday(date("1990-06-01"), today)))
}

func TestNextBirthday_WithinOneYear(t *testing.T) {
	births := []time.Time{date("2000-02-29")}
	for d := date("2001-01-01"); d.Year() == 2001; d = d.AddDate(0, 0, 1) {
		births = append(births, d)
	}

	for today := date("2023-01-01"); today.Before(date("2029-01-01")); today = today.AddDate(0, 0, 13) {
		for _, birth := range births {
			next := NextBirthday(birth, today)
			days := DaysUntil(today, next)
			require.GreaterOrEqual(t, days, 0, "birth %s today %s", birth, today)
			require.Less(t, days, 366, "birth %s today %s", birth, today)
		}
	}
}

func TestBirthdayInYear(t *testing.T) {
	assert.Equal(t, date("2026-02-28"), BirthdayInYear(date("2000-02-29"), 2026))
	assert.Equal(t, date("2024-02-29"), BirthdayInYear(date("2000-02-29"), 2024))
	assert.Equal(t, date("2100-02-28"), BirthdayInYear(date("2000-02-29"), 2100))
	assert.Equal(t, date("2026-07-15"), BirthdayInYear(date("1970-07-15"), 2026))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 0, DaysUntil(date("2025-01-01"), date("2025-01-01")))
	assert.Equal(t, 365, DaysUntil(date("2025-01-01"), date("2026-01-01")))
	assert.Equal(t, 366, DaysUntil(date("2024-01-01"), date("2025-01-01")))
	assert.Equal(t, -1, DaysUntil(date("2025-01-02"), date("2025-01-01")))
}

func TestAge(t *testing.T) {
	assert.Equal(t, 34, Age(date("1990-06-02"), date("2025-06-01")))
	assert.Equal(t, 35, Age(date("1990-06-01"), date("2025-06-01")))
	assert.Equal(t, 25, Age(date("2000-02-29"), date("2025-02-28")))
	assert.Equal(t, 24, Age(date("2000-02-29"), date("2025-02-27")))
}
