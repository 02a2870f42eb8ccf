package forecast

import (
	"strings"
	"time"
)

// Cadence is the repeat interval of a recurring obligation
type Cadence string

const (
	CadenceDaily     Cadence = "daily"
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
	// CadenceOneOff never repeats; it yields at most one occurrence
	CadenceOneOff Cadence = "one_off"
)

// IsValid reports whether c is one of the known cadences
func (c Cadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceBiweekly, CadenceMonthly,
		CadenceQuarterly, CadenceYearly, CadenceOneOff:
		return true
	}
	return false
}

// ParseCadence normalizes a stored cadence string. Unknown values fall back
// to monthly rather than being rejected.
func ParseCadence(s string) Cadence {
	c := Cadence(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "bi-weekly", "fortnightly":
		return CadenceBiweekly
	case "annual", "annually":
		return CadenceYearly
	case "oneoff", "one-off", "once":
		return CadenceOneOff
	}
	if !c.IsValid() {
		return CadenceMonthly
	}
	return c
}

// Calendar does the date arithmetic the engine needs. Implementations must
// return dates normalized by Midday.
type Calendar interface {
	AddDays(t time.Time, days int) time.Time
	// AddMonths clamps the day-of-month to the last valid day of the target month
	AddMonths(t time.Time, months int) time.Time
	Midday(t time.Time) time.Time
	// Date returns the canonical instant of a calendar date
	Date(year int, month time.Month, day int) time.Time
}

type gregorian struct {
	loc *time.Location
}

// NewCalendar returns a Gregorian calendar anchored in loc (UTC when nil)
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return gregorian{loc: loc}
}

func (g gregorian) Midday(t time.Time) time.Time {
	t = t.In(g.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, g.loc)
}

func (g gregorian) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, g.loc)
}

func (g gregorian) AddDays(t time.Time, days int) time.Time {
	t = g.Midday(t)
	return time.Date(t.Year(), t.Month(), t.Day()+days, 12, 0, 0, 0, g.loc)
}

func (g gregorian) AddMonths(t time.Time, months int) time.Time {
	t = g.Midday(t)
	// day 1 of the target month never overflows
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 12, 0, 0, 0, g.loc)
	day := t.Day()
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 12, 0, 0, 0, g.loc)
}

func daysIn(firstOfMonth time.Time) int {
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month()+1, 0, 12, 0, 0, 0, firstOfMonth.Location()).Day()
}

// NextDate returns the occurrence that follows from under cadence c.
// One-off cadences have no next occurrence and return from unchanged.
func NextDate(cal Calendar, from time.Time, c Cadence) time.Time {
	switch ParseCadence(string(c)) {
	case CadenceDaily:
		return cal.AddDays(from, 1)
	case CadenceWeekly:
		return cal.AddDays(from, 7)
	case CadenceBiweekly:
		return cal.AddDays(from, 14)
	case CadenceQuarterly:
		return cal.AddMonths(from, 3)
	case CadenceYearly:
		return cal.AddMonths(from, 12)
	case CadenceOneOff:
		return cal.Midday(from)
	default:
		return cal.AddMonths(from, 1)
	}
}

// MonthlyEquivalent converts an amount paid at cadence c into a per-month figure
func MonthlyEquivalent(amount float64, c Cadence) float64 {
	switch ParseCadence(string(c)) {
	case CadenceDaily:
		return amount * 30
	case CadenceWeekly:
		return amount * 4.33
	case CadenceBiweekly:
		return amount * 2.17
	case CadenceQuarterly:
		return amount / 3
	case CadenceYearly:
		return amount / 12
	case CadenceOneOff:
		return 0
	default:
		return amount
	}
}
