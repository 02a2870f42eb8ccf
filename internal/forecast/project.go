package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Project merges the occurrences of every obligation and active debt inside
// the horizon and walks them in date order, carrying a running balance from
// startingBalance. Same-day events keep their input order, obligations
// before debts.
func Project(cal Calendar, startingBalance float64, obligations []RecurringObligation, debts []DebtInstallment, asOf time.Time, horizonDays int) (*Projection, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	asOf = cal.Midday(asOf)
	horizonEnd := cal.AddDays(asOf, horizonDays)

	var candidates []Occurrence
	for _, ob := range obligations {
		occ, err := Expand(cal, ob, asOf, horizonEnd)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, occ...)
	}
	for _, d := range debts {
		occ, err := ExpandDebt(cal, d, asOf, horizonEnd)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, occ...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date.Before(candidates[j].Date)
	})

	p := &Projection{
		StartingBalance: startingBalance,
		AsOf:            asOf,
		HorizonDays:     horizonDays,
		HorizonEnd:      horizonEnd,
		Events:          make([]ProjectedEvent, 0, len(candidates)),
		EndingBalance:   startingBalance,
	}
	running := decimal.NewFromFloat(startingBalance)
	for _, occ := range candidates {
		running = running.Add(decimal.NewFromFloat(occ.Signed()))
		p.Events = append(p.Events, ProjectedEvent{
			Occurrence:     occ,
			RunningBalance: running.InexactFloat64(),
		})
	}
	if n := len(p.Events); n > 0 {
		p.EndingBalance = p.Events[n-1].RunningBalance
	}
	return p, nil
}
