package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EndOfMonth returns the last calendar day of the month containing date, at midnight.
func EndOfMonth(date time.Time) time.Time {
	// day 0 of the next month is the last day of this one
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location())
}

// FirstOfMonth returns the first day of the month for a given year and month.
func FirstOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonthsEnd moves a month-end date by a number of months and returns the
// end of the resulting month. Unlike time.AddDate it never overflows into the
// following month (Jan 31 + 1 month is Feb 28/29, not Mar 3).
func AddMonthsEnd(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	return EndOfMonth(first.AddDate(0, months, 0))
}

// IsEndOfMonth reports whether date falls on the last day of its month.
func IsEndOfMonth(date time.Time) bool {
	return date.Day() == DaysInMonth(date.Year(), int(date.Month()))
}

// MonthsBetween counts whole calendar months from one date to another.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in a month of a given year
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear returns the number of days in a given year
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// ParseMonth accepts a month number (1-12), a full English month name or its
// three-letter abbreviation, in any case.
func ParseMonth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty month")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range 1-12", n)
		}
		return n, nil
	}
	if n, ok := monthNames[s]; ok {
		return n, nil
	}
	if len(s) == 3 {
		for name, n := range monthNames {
			if strings.HasPrefix(name, s) {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// ShortMonthName returns the three-letter upper-case month name ("APR").
func ShortMonthName(month int) string {
	return strings.ToUpper(time.Month(month).String()[:3])
}

// FiscalYearEndMonth returns the last month of a fiscal year starting at startMonth.
func FiscalYearEndMonth(startMonth int) int {
	if startMonth == 1 {
		return 12
	}
	return startMonth - 1
}
