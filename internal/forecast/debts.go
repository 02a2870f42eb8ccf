package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtOutlook aggregates the active debts of a snapshot
type DebtOutlook struct {
	ActiveCount        int
	TotalRemaining     float64
	MonthlyPayments    float64
	RemainingThisMonth float64
	OverdueCount       int
	OverdueAmount      float64
	NextDue            *DebtInstallment
	// DebtFree is set when no active debt has a remaining balance
	DebtFree bool
	// DebtFreeDate is the last estimated payoff among active debts. It is
	// nil when DebtFree is set or when any debt never clears.
	DebtFreeDate *time.Time
	NeverPaidOff int
}

// maxPayoffYears bounds the payoff search
const maxPayoffYears = 100

// IsActiveThisMonth reports whether the debt's due date falls in the
// calendar month of asOf and is still ahead of it.
func IsActiveThisMonth(cal Calendar, d DebtInstallment, asOf time.Time) bool {
	if !d.IsActive() || d.NextDueDate == nil {
		return false
	}
	due := cal.Midday(*d.NextDueDate)
	asOf = cal.Midday(asOf)
	return due.Year() == asOf.Year() && due.Month() == asOf.Month() && due.After(asOf)
}

// PayoffDate estimates the due date of the installment that clears
// d.RemainingAmount, stepping from NextDueDate at the debt's cadence. A
// debt with nothing remaining is paid off at asOf. ok is false when the
// balance never clears: no due date, no payment, a one-off smaller than
// the balance, or a payoff beyond maxPayoffYears.
func PayoffDate(cal Calendar, d DebtInstallment, asOf time.Time) (time.Time, bool) {
	remaining := decimal.NewFromFloat(d.RemainingAmount)
	if !remaining.IsPositive() {
		return cal.Midday(asOf), true
	}
	payment := decimal.NewFromFloat(d.MonthlyPaymentAmount)
	if d.NextDueDate == nil || !payment.IsPositive() {
		return time.Time{}, false
	}

	installments := remaining.Div(payment).Ceil().IntPart()
	cadence := ParseCadence(string(d.Cadence))
	due := cal.Midday(*d.NextDueDate)
	if cadence == CadenceOneOff {
		return due, installments <= 1
	}

	limit := cal.AddMonths(asOf, 12*maxPayoffYears)
	for i := int64(1); i < installments; i++ {
		next := cal.Midday(NextDate(cal, due, cadence))
		if !next.After(due) || next.After(limit) {
			return time.Time{}, false
		}
		due = next
	}
	return due, true
}

// SummarizeDebts computes the debt figures shown next to a projection
func SummarizeDebts(cal Calendar, debts []DebtInstallment, asOf time.Time) DebtOutlook {
	var out DebtOutlook
	asOf = cal.Midday(asOf)
	remaining, monthly, thisMonth, overdue := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	var nextDue, debtFree time.Time
	outstanding := 0

	for i := range debts {
		d := debts[i]
		if !d.IsActive() {
			continue
		}
		out.ActiveCount++
		remaining = remaining.Add(decimal.NewFromFloat(d.RemainingAmount))
		monthly = monthly.Add(decimal.NewFromFloat(MonthlyEquivalent(d.MonthlyPaymentAmount, d.Cadence)))
		if d.RemainingAmount > 0 {
			outstanding++
			if paid, ok := PayoffDate(cal, d, asOf); !ok {
				out.NeverPaidOff++
			} else if paid.After(debtFree) {
				debtFree = paid
			}
		}
		if d.NextDueDate == nil {
			continue
		}
		due := cal.Midday(*d.NextDueDate)
		if due.Before(asOf) {
			out.OverdueCount++
			overdue = overdue.Add(decimal.NewFromFloat(d.MonthlyPaymentAmount))
			continue
		}
		if IsActiveThisMonth(cal, d, asOf) {
			thisMonth = thisMonth.Add(decimal.NewFromFloat(d.MonthlyPaymentAmount))
		}
		if out.NextDue == nil || due.Before(nextDue) {
			out.NextDue = &debts[i]
			nextDue = due
		}
	}

	out.TotalRemaining = remaining.InexactFloat64()
	out.MonthlyPayments = monthly.InexactFloat64()
	out.RemainingThisMonth = thisMonth.InexactFloat64()
	out.OverdueAmount = overdue.InexactFloat64()
	switch {
	case outstanding == 0:
		out.DebtFree = true
	case out.NeverPaidOff == 0:
		out.DebtFreeDate = &debtFree
	}
	return out
}
