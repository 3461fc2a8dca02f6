package calendar

import "time"

// BirthdayInYear returns the day birth is celebrated in year.
// Feb 29 birthdays are observed on Feb 28 in non-leap years.
func BirthdayInYear(birth time.Time, year int) time.Time {
	_, m, d := birth.Date()
	if m == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
}

// NextBirthday returns the first celebration of birth on or after today.
func NextBirthday(birth, today time.Time) time.Time {
	today = Date(today)
	next := BirthdayInYear(birth, today.Year())
	if next.Before(today) {
		next = BirthdayInYear(birth, today.Year()+1)
	}
	return next
}

// DaysUntil returns the number of calendar days from from to to.
func DaysUntil(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)) / day)
}

// Age returns the completed years of someone born on birth, as of on.
func Age(birth, on time.Time) int {
	on = Date(on)
	years := on.Year() - birth.Year()
	if BirthdayInYear(birth, on.Year()).After(on) {
		years--
	}
	return years
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
