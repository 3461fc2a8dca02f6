package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// holidayFile is the on-disk format of extra holidays:
//
//	disable_national: false
//	holidays:
//	  - name: Aniversário de São Paulo
//	    month: 1
//	    day: 25
//	  - name: Ponte de Finados
//	    date: 2026-11-03
type holidayFile struct {
	DisableNational bool        `yaml:"disable_national"`
	Holidays        []fileEntry `yaml:"holidays"`
}

type fileEntry struct {
	Name  string `yaml:"name"`
	Date  string `yaml:"date"`
	Month int    `yaml:"month"`
	Day   int    `yaml:"day"`
}

// LoadFile reads calendar options from a YAML holiday file.
func LoadFile(path string) ([]Option, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: read file %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes calendar options from YAML.
func Parse(data []byte) ([]Option, error) {
	var f holidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("calendar: parse yaml: %w", err)
	}

	var opts []Option
	if f.DisableNational {
		opts = append(opts, WithoutNationalHolidays())
	}

	for i, entry := range f.Holidays {
		if entry.Name == "" {
			return nil, fmt.Errorf("calendar: holidays[%d]: name must be set", i)
		}

		switch {
		case entry.Date != "":
			d, err := time.Parse("2006-01-02", entry.Date)
			if err != nil {
				return nil, fmt.Errorf("calendar: holidays[%d]: invalid date %q: %w", i, entry.Date, err)
			}
			opts = append(opts, WithHolidays(Holiday{Date: d, Name: entry.Name}))
		case entry.Month != 0 || entry.Day != 0:
			if entry.Month < 1 || entry.Month > 12 {
				return nil, fmt.Errorf("calendar: holidays[%d]: month must be 1-12", i)
			}
			// 2024 is a leap year, so Feb 29 is accepted here
			probe := time.Date(2024, time.Month(entry.Month), entry.Day, 0, 0, 0, 0, time.UTC)
			if entry.Day < 1 || probe.Month() != time.Month(entry.Month) {
				return nil, fmt.Errorf("calendar: holidays[%d]: invalid day %d for month %d", i, entry.Day, entry.Month)
			}
			opts = append(opts, WithRecurring(time.Month(entry.Month), entry.Day, entry.Name))
		default:
			return nil, fmt.Errorf("calendar: holidays[%d]: either date or month/day must be set", i)
		}
	}

	return opts, nil
}
