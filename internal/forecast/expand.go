package forecast

import (
	"fmt"
	"time"
)

// Expand lists the occurrences of an obligation that fall in
// [asOf, horizonEnd). Overdue obligations are rolled forward to asOf
// before anything is emitted. Zero-amount obligations are kept.
func Expand(cal Calendar, ob RecurringObligation, asOf, horizonEnd time.Time) ([]Occurrence, error) {
	if ob.NextOccurrence.IsZero() {
		return nil, nil
	}
	asOf = cal.Midday(asOf)
	horizonEnd = cal.Midday(horizonEnd)
	cadence := ParseCadence(string(ob.Cadence))
	current := cal.Midday(ob.NextOccurrence)
	direction := ob.Kind
	if direction != Income {
		direction = Expense
	}
	emit := func(d time.Time) Occurrence {
		return Occurrence{
			Date:        d,
			Description: ob.Name,
			Amount:      ob.Amount,
			Direction:   direction,
			SourceID:    ob.ID,
		}
	}

	if cadence == CadenceOneOff {
		if !current.Before(asOf) && current.Before(horizonEnd) {
			return []Occurrence{emit(current)}, nil
		}
		return nil, nil
	}

	// Every step must gain at least one day, so the number of steps is
	// bounded by the day span being covered.
	if current.Before(asOf) {
		limit := daysBetween(current, asOf) + 1
		for steps := 0; current.Before(asOf); steps++ {
			next, err := advance(cal, current, cadence, steps, limit)
			if err != nil {
				return nil, fmt.Errorf("obligation %s: %w", ob.ID, err)
			}
			current = next
		}
	}

	var out []Occurrence
	limit := daysBetween(asOf, horizonEnd) + 1
	for steps := 0; current.Before(horizonEnd); steps++ {
		out = append(out, emit(current))
		next, err := advance(cal, current, cadence, steps, limit)
		if err != nil {
			return nil, fmt.Errorf("obligation %s: %w", ob.ID, err)
		}
		current = next
	}
	return out, nil
}

// ExpandDebt treats an active debt as a recurring expense
func ExpandDebt(cal Calendar, d DebtInstallment, asOf, horizonEnd time.Time) ([]Occurrence, error) {
	if !d.IsActive() || d.NextDueDate == nil {
		return nil, nil
	}
	occ, err := Expand(cal, d.asObligation(), asOf, horizonEnd)
	for i := range occ {
		occ[i].FromDebt = true
	}
	return occ, err
}

func (d DebtInstallment) asObligation() RecurringObligation {
	ob := RecurringObligation{
		ID:      d.ID,
		Name:    d.Name,
		Amount:  d.MonthlyPaymentAmount,
		Kind:    Expense,
		Cadence: d.Cadence,
	}
	if d.NextDueDate != nil {
		ob.NextOccurrence = *d.NextDueDate
	}
	return ob
}

func advance(cal Calendar, current time.Time, c Cadence, steps, limit int) (time.Time, error) {
	if steps >= limit {
		return current, fmt.Errorf("%w: exceeded %d steps from %s", ErrCadenceStalled, limit, current.Format(dateLayout))
	}
	next := cal.Midday(NextDate(cal, current, c))
	if !next.After(current) {
		return current, fmt.Errorf("%w: %s stayed at %s", ErrCadenceStalled, c, current.Format(dateLayout))
	}
	return next, nil
}

const dateLayout = "2006-01-02"

// daysBetween counts calendar days from a to b, ignoring DST shifts
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
