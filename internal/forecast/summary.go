package forecast

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayGroup holds the events of one calendar day
type DayGroup struct {
	Date   time.Time
	Events []ProjectedEvent
}

// WeekGroup holds the events of one ISO week
type WeekGroup struct {
	Year   int
	Week   int
	Net    float64
	Events []ProjectedEvent
}

// MonthGroup splits one calendar month of events into income, obligation
// spend and debt installments. CumulativeNet runs from the start of the
// projection through the end of the month.
type MonthGroup struct {
	Year          int
	Month         time.Month
	Income        float64
	FixedExpenses float64
	DebtPayments  float64
	Net           float64
	CumulativeNet float64
	Events        []ProjectedEvent
}

// Summary is derived from a finished projection
type Summary struct {
	StartingBalance   float64
	EndingBalance     float64
	ProjectedChange   float64
	TotalIncome       float64
	TotalExpense      float64
	LowestBalance     float64
	LowestBalanceDate time.Time
	DaysBelowZero     int
	ByDay             []DayGroup
	ByWeek            []WeekGroup
	ByMonth           []MonthGroup
}

type monthTotals struct {
	income, fixed, debt decimal.Decimal
}

// Summarize aggregates p. Groups keep chronological key order because
// p.Events is already sorted.
func Summarize(p *Projection) Summary {
	s := Summary{
		StartingBalance:   p.StartingBalance,
		EndingBalance:     p.EndingBalance,
		ProjectedChange:   decimal.NewFromFloat(p.EndingBalance).Sub(decimal.NewFromFloat(p.StartingBalance)).InexactFloat64(),
		LowestBalance:     p.StartingBalance,
		LowestBalanceDate: p.AsOf,
	}

	income, expense := decimal.Zero, decimal.Zero
	var weekNets []decimal.Decimal
	var months []monthTotals
	for _, ev := range p.Events {
		amt := decimal.NewFromFloat(ev.Amount)
		if ev.Direction == Income {
			income = income.Add(amt)
		} else {
			expense = expense.Add(amt)
		}
		if ev.RunningBalance < s.LowestBalance {
			s.LowestBalance = ev.RunningBalance
			s.LowestBalanceDate = ev.Date
		}

		if n := len(s.ByDay); n > 0 && sameDay(s.ByDay[n-1].Date, ev.Date) {
			s.ByDay[n-1].Events = append(s.ByDay[n-1].Events, ev)
		} else {
			s.ByDay = append(s.ByDay, DayGroup{Date: ev.Date, Events: []ProjectedEvent{ev}})
		}

		year, week := ev.Date.ISOWeek()
		if n := len(s.ByWeek); n == 0 || s.ByWeek[n-1].Year != year || s.ByWeek[n-1].Week != week {
			s.ByWeek = append(s.ByWeek, WeekGroup{Year: year, Week: week})
			weekNets = append(weekNets, decimal.Zero)
		}
		w := len(s.ByWeek) - 1
		s.ByWeek[w].Events = append(s.ByWeek[w].Events, ev)
		weekNets[w] = weekNets[w].Add(decimal.NewFromFloat(ev.Signed()))

		if n := len(s.ByMonth); n == 0 || s.ByMonth[n-1].Year != ev.Date.Year() || s.ByMonth[n-1].Month != ev.Date.Month() {
			s.ByMonth = append(s.ByMonth, MonthGroup{Year: ev.Date.Year(), Month: ev.Date.Month()})
			months = append(months, monthTotals{income: decimal.Zero, fixed: decimal.Zero, debt: decimal.Zero})
		}
		m := len(s.ByMonth) - 1
		s.ByMonth[m].Events = append(s.ByMonth[m].Events, ev)
		switch {
		case ev.Direction == Income:
			months[m].income = months[m].income.Add(amt)
		case ev.FromDebt:
			months[m].debt = months[m].debt.Add(amt)
		default:
			months[m].fixed = months[m].fixed.Add(amt)
		}
	}
	s.TotalIncome = income.InexactFloat64()
	s.TotalExpense = expense.InexactFloat64()

	for i, net := range weekNets {
		s.ByWeek[i].Net = net.InexactFloat64()
	}
	cumulative := decimal.Zero
	for i, t := range months {
		net := t.income.Sub(t.fixed).Sub(t.debt)
		cumulative = cumulative.Add(net)
		g := &s.ByMonth[i]
		g.Income = t.income.InexactFloat64()
		g.FixedExpenses = t.fixed.InexactFloat64()
		g.DebtPayments = t.debt.InexactFloat64()
		g.Net = net.InexactFloat64()
		g.CumulativeNet = cumulative.InexactFloat64()
	}

	for _, day := range closingBalances(p) {
		if day < 0 {
			s.DaysBelowZero++
		}
	}
	return s
}

// DailyBalance is the closing balance of one day in the horizon
type DailyBalance struct {
	Date    time.Time
	Balance float64
}

// DailyBalances returns one closing balance per day from AsOf up to, but
// not including, HorizonEnd. Days without events carry the previous balance.
func DailyBalances(cal Calendar, p *Projection) []DailyBalance {
	closing := closingBalances(p)
	out := make([]DailyBalance, len(closing))
	for i, bal := range closing {
		out[i] = DailyBalance{Date: cal.AddDays(p.AsOf, i), Balance: bal}
	}
	return out
}

func closingBalances(p *Projection) []float64 {
	days := daysBetween(p.AsOf, p.HorizonEnd)
	if days <= 0 {
		return nil
	}
	out := make([]float64, days)
	balance := p.StartingBalance
	next := 0
	for i := range out {
		for next < len(p.Events) && daysBetween(p.AsOf, p.Events[next].Date) <= i {
			balance = p.Events[next].RunningBalance
			next++
		}
		out[i] = balance
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
