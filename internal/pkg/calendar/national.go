package calendar

import (
	"sync"
	"time"
)

// national holidays indexed by date, cached per year
var nationalCache sync.Map

func nationalIndex(year int) map[time.Time]string {
	if cached, ok := nationalCache.Load(year); ok {
		return cached.(map[time.Time]string)
	}
	index := make(map[time.Time]string)
	for _, h := range nationalHolidays(year) {
		index[h.Date] = h.Name
	}
	actual, _ := nationalCache.LoadOrStore(year, index)
	return actual.(map[time.Time]string)
}

// Easter returns Easter Sunday of year (anonymous Gregorian algorithm).
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dayOfMonth := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

// nationalHolidays returns the Brazilian national holidays of year, including
// the Easter-based Carnival, Good Friday and Corpus Christi.
func nationalHolidays(year int) []Holiday {
	fixed := func(m time.Month, d int, name string) Holiday {
		return Holiday{Date: time.Date(year, m, d, 0, 0, 0, 0, time.UTC), Name: name}
	}
	easter := Easter(year)
	movable := func(offset int, name string) Holiday {
		return Holiday{Date: easter.AddDate(0, 0, offset), Name: name}
	}

	holidays := []Holiday{
		fixed(time.January, 1, "Confraternização Universal"),
		movable(-48, "Carnaval"),
		movable(-47, "Carnaval"),
		movable(-2, "Sexta-feira Santa"),
		fixed(time.April, 21, "Tiradentes"),
		fixed(time.May, 1, "Dia do Trabalho"),
		movable(60, "Corpus Christi"),
		fixed(time.September, 7, "Independência do Brasil"),
		fixed(time.October, 12, "Nossa Senhora Aparecida"),
		fixed(time.November, 2, "Finados"),
		fixed(time.November, 15, "Proclamação da República"),
		fixed(time.December, 25, "Natal"),
	}
	// Law 14.759/2023
	if year >= 2024 {
		holidays = append(holidays, fixed(time.November, 20, "Dia Nacional de Zumbi e da Consciência Negra"))
	}
	return holidays
}
