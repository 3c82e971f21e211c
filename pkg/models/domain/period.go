package domain

import (
	"fmt"
	"time"
)

const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// Period is the reporting window of one export: either a calendar month
// or an inclusive [StartDate, EndDate] range of days.
type Period struct {
	Month     string
	StartDate string
	EndDate   string
}

// MonthPeriod returns the period for the calendar month of t.
func MonthPeriod(t time.Time) Period {
	return Period{Month: t.Format(MonthLayout)}
}

// PreviousMonth returns the calendar month immediately preceding the month of now.
func PreviousMonth(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return MonthPeriod(first.AddDate(0, -1, 0))
}

// ResolvePeriod builds a validated period from raw invocation arguments.
func ResolvePeriod(month, startDate, endDate string) (Period, error) {
	p := Period{Month: month, StartDate: startDate, EndDate: endDate}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) IsMonth() bool {
	return p.Month != ""
}

func (p Period) IsRange() bool {
	return p.Month == "" && p.StartDate != "" && p.EndDate != ""
}

// Validate checks that exactly one period form is present and well formed.
func (p Period) Validate() error {
	hasRange := p.StartDate != "" || p.EndDate != ""

	switch {
	case p.Month != "" && hasRange:
		return NewConfigurationError(p.Label(), "provide either month OR startDate & endDate, not both")
	case p.Month != "":
		if _, err := time.Parse(MonthLayout, p.Month); err != nil {
			return NewConfigurationError(p.Month, fmt.Sprintf("invalid month %q: expected format YYYY-MM", p.Month))
		}
		return nil
	case p.StartDate != "" && p.EndDate != "":
		start, err := time.Parse(DateLayout, p.StartDate)
		if err != nil {
			return NewConfigurationError(p.Label(), fmt.Sprintf("invalid startDate %q: expected format YYYY-MM-DD", p.StartDate))
		}
		end, err := time.Parse(DateLayout, p.EndDate)
		if err != nil {
			return NewConfigurationError(p.Label(), fmt.Sprintf("invalid endDate %q: expected format YYYY-MM-DD", p.EndDate))
		}
		if end.Before(start) {
			return NewConfigurationError(p.Label(), "startDate must not be after endDate")
		}
		return nil
	default:
		return NewConfigurationError(p.Label(), "provide either month OR startDate & endDate")
	}
}

// Range returns the parsed inclusive day bounds of a range period.
func (p Period) Range() (time.Time, time.Time, error) {
	if !p.IsRange() {
		return time.Time{}, time.Time{}, fmt.Errorf("period %q is not a date range", p.Label())
	}
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Label is the human readable form used in file names and log fields.
func (p Period) Label() string {
	if p.Month != "" {
		return p.Month
	}
	if p.StartDate == "" && p.EndDate == "" {
		return ""
	}
	return fmt.Sprintf("%s_to_%s", p.StartDate, p.EndDate)
}

func (p Period) String() string {
	return p.Label()
}
