package forecast

import (
	"math"
	"testing"
	"time"
)

func sampleProjection(t *testing.T) *Projection {
	t.Helper()
	cal := NewCalendar(time.UTC)
	obs := []RecurringObligation{
		{ID: "salary", Name: "Salary", Amount: 2000, Kind: Income, Cadence: CadenceMonthly, NextOccurrence: day(2025, time.January, 25)},
		{ID: "rent", Name: "Rent", Amount: 1500, Kind: Expense, Cadence: CadenceMonthly, NextOccurrence: day(2025, time.January, 16)},
		{ID: "groceries", Name: "Groceries", Amount: 100, Kind: Expense, Cadence: CadenceWeekly, NextOccurrence: day(2025, time.January, 16)},
	}
	p, err := Project(cal, 1000, obs, nil, asOf, 30)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	return p
}

func TestSummarize(t *testing.T) {
	p := sampleProjection(t)
	s := Summarize(p)

	// Jan 16: rent + groceries, Jan 23, Jan 25 salary, Jan 30, Feb 6, Feb 13
	if len(p.Events) != 7 {
		t.Fatalf("len(Events) = %d, want 7", len(p.Events))
	}
	if s.TotalIncome != 2000 || s.TotalExpense != 2000 {
		t.Errorf("income/expense = %v/%v, want 2000/2000", s.TotalIncome, s.TotalExpense)
	}
	if s.EndingBalance != 1000 || s.ProjectedChange != 0 {
		t.Errorf("ending = %v, change = %v", s.EndingBalance, s.ProjectedChange)
	}
	if s.LowestBalance != -700 || !s.LowestBalanceDate.Equal(day(2025, time.January, 23)) {
		t.Errorf("lowest = %v on %s, want -700 on 2025-01-23", s.LowestBalance, s.LowestBalanceDate.Format(dateLayout))
	}
	// negative from Jan 16 through Jan 24
	if s.DaysBelowZero != 9 {
		t.Errorf("DaysBelowZero = %d, want 9", s.DaysBelowZero)
	}

	if len(s.ByDay) != 6 {
		t.Fatalf("len(ByDay) = %d, want 6", len(s.ByDay))
	}
	first := s.ByDay[0]
	if !first.Date.Equal(day(2025, time.January, 16)) || len(first.Events) != 2 {
		t.Errorf("first day group = %s with %d events", first.Date.Format(dateLayout), len(first.Events))
	}
	if first.Events[0].SourceID != "rent" || first.Events[1].SourceID != "groceries" {
		t.Errorf("first day order = %s, %s", first.Events[0].SourceID, first.Events[1].SourceID)
	}
	if s.ByWeek[0].Net != -1600 {
		t.Errorf("first week net = %v, want -1600", s.ByWeek[0].Net)
	}
	for i := 1; i < len(s.ByDay); i++ {
		if !s.ByDay[i].Date.After(s.ByDay[i-1].Date) {
			t.Errorf("day groups out of order at %d", i)
		}
	}

	// ISO weeks 3 (Jan 16), 4 (Jan 23, 25), 5 (Jan 30), 6 (Feb 6), 7 (Feb 13)
	wantWeeks := []struct{ week, events int }{{3, 2}, {4, 2}, {5, 1}, {6, 1}, {7, 1}}
	if len(s.ByWeek) != len(wantWeeks) {
		t.Fatalf("len(ByWeek) = %d, want %d", len(s.ByWeek), len(wantWeeks))
	}
	for i, w := range wantWeeks {
		got := s.ByWeek[i]
		if got.Year != 2025 || got.Week != w.week || len(got.Events) != w.events {
			t.Errorf("week group %d = %d-W%d (%d events), want W%d (%d events)", i, got.Year, got.Week, len(got.Events), w.week, w.events)
		}
	}
}

func TestSummarize_ISOWeekAcrossYearEnd(t *testing.T) {
	cal := NewCalendar(time.UTC)
	start := day(2024, time.December, 28)
	obs := []RecurringObligation{{ID: "d", Name: "Daily", Amount: 1, Kind: Expense, Cadence: CadenceDaily, NextOccurrence: start}}
	p, err := Project(cal, 0, obs, nil, start, 5)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	s := Summarize(p)
	// Dec 28-29 belong to 2024-W52, Dec 30 - Jan 1 to 2025-W01
	if len(s.ByWeek) != 2 {
		t.Fatalf("len(ByWeek) = %d, want 2", len(s.ByWeek))
	}
	if s.ByWeek[0].Year != 2024 || s.ByWeek[0].Week != 52 || len(s.ByWeek[0].Events) != 2 {
		t.Errorf("first week = %+v", s.ByWeek[0])
	}
	if s.ByWeek[1].Year != 2025 || s.ByWeek[1].Week != 1 || len(s.ByWeek[1].Events) != 3 {
		t.Errorf("second week = %d-W%d with %d events", s.ByWeek[1].Year, s.ByWeek[1].Week, len(s.ByWeek[1].Events))
	}
}

func TestSummarize_Empty(t *testing.T) {
	p, _ := Project(NewCalendar(nil), 750, nil, nil, asOf, 30)
	s := Summarize(p)
	if s.EndingBalance != 750 || s.ProjectedChange != 0 || s.LowestBalance != 750 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.ByDay) != 0 || len(s.ByWeek) != 0 || s.DaysBelowZero != 0 {
		t.Errorf("expected no groups, got %d days %d weeks", len(s.ByDay), len(s.ByWeek))
	}
}

func TestDailyBalances(t *testing.T) {
	cal := NewCalendar(time.UTC)
	p := sampleProjection(t)
	days := DailyBalances(cal, p)

	if len(days) != 30 {
		t.Fatalf("len = %d, want 30", len(days))
	}
	checks := map[int]float64{
		0:  1000, // nothing on as-of
		1:  -600, // rent and groceries
		7:  -600,
		8:  -700,
		10: 1300,
		29: 1000,
	}
	for i, want := range checks {
		if math.Abs(days[i].Balance-want) > 1e-9 {
			t.Errorf("day %d (%s) balance = %v, want %v", i, days[i].Date.Format(dateLayout), days[i].Balance, want)
		}
	}
	if !days[0].Date.Equal(asOf) || !days[29].Date.Equal(day(2025, time.February, 13)) {
		t.Errorf("range = %s..%s", days[0].Date.Format(dateLayout), days[29].Date.Format(dateLayout))
	}
}

func TestSummarizeDebts(t *testing.T) {
	cal := NewCalendar(time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }
	debts := []DebtInstallment{
		{ID: "bnpl", Name: "Tabby", MonthlyPaymentAmount: 120, RemainingAmount: 360, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.January, 20)), Status: DebtActive},
		{ID: "card", Name: "Card", MonthlyPaymentAmount: 50, RemainingAmount: 900, Cadence: CadenceBiweekly, NextDueDate: ptr(day(2025, time.February, 3)), Status: DebtActive},
		{ID: "late", Name: "Family", MonthlyPaymentAmount: 75, RemainingAmount: 300, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.January, 10)), Status: DebtActive},
		{ID: "today", Name: "Loan", MonthlyPaymentAmount: 200, RemainingAmount: 2000, Cadence: CadenceMonthly, NextDueDate: ptr(asOf), Status: DebtActive},
		{ID: "done", Name: "Old", MonthlyPaymentAmount: 999, RemainingAmount: 0, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.January, 18)), Status: DebtCompleted},
	}

	out := SummarizeDebts(cal, debts, asOf)
	if out.ActiveCount != 4 {
		t.Errorf("ActiveCount = %d, want 4", out.ActiveCount)
	}
	if out.TotalRemaining != 3560 {
		t.Errorf("TotalRemaining = %v, want 3560", out.TotalRemaining)
	}
	// the loan due on asOf itself is not counted as still ahead
	if out.RemainingThisMonth != 120 {
		t.Errorf("RemainingThisMonth = %v, want 120", out.RemainingThisMonth)
	}
	if out.OverdueCount != 1 || out.OverdueAmount != 75 {
		t.Errorf("overdue = %d/%v, want 1/75", out.OverdueCount, out.OverdueAmount)
	}
	if math.Abs(out.MonthlyPayments-(120+50*2.17+75+200)) > 1e-9 {
		t.Errorf("MonthlyPayments = %v", out.MonthlyPayments)
	}
	if out.NextDue == nil || out.NextDue.ID != "today" {
		t.Errorf("NextDue = %+v, want today", out.NextDue)
	}

	// loan: 10 monthly payments from Jan 15 is the last to clear
	if out.DebtFree || out.NeverPaidOff != 0 || out.DebtFreeDate == nil || !out.DebtFreeDate.Equal(day(2025, time.October, 15)) {
		t.Errorf("debt free = %v/%d/%v, want 2025-10-15", out.DebtFree, out.NeverPaidOff, out.DebtFreeDate)
	}

	wantThisMonth := []bool{true, false, false, false, false}
	for i, want := range wantThisMonth {
		if got := IsActiveThisMonth(cal, debts[i], asOf); got != want {
			t.Errorf("IsActiveThisMonth(%s) = %v, want %v", debts[i].ID, got, want)
		}
	}
}

func TestSummarize_ByMonth(t *testing.T) {
	cal := NewCalendar(time.UTC)
	due := day(2025, time.January, 20)
	obs := []RecurringObligation{
		{ID: "salary", Name: "Salary", Amount: 1000, Kind: Income, Cadence: CadenceMonthly, NextOccurrence: day(2025, time.January, 31)},
		{ID: "gym", Name: "Gym", Amount: 50, Kind: Expense, Cadence: CadenceMonthly, NextOccurrence: day(2025, time.February, 1)},
	}
	debts := []DebtInstallment{
		{ID: "loan", Name: "Loan", MonthlyPaymentAmount: 300, RemainingAmount: 900, Cadence: CadenceMonthly, NextDueDate: &due, Status: DebtActive},
	}
	p, err := Project(cal, 0, obs, debts, asOf, 60)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	s := Summarize(p)

	want := []MonthGroup{
		{Year: 2025, Month: time.January, Income: 1000, FixedExpenses: 0, DebtPayments: 300, Net: 700, CumulativeNet: 700},
		{Year: 2025, Month: time.February, Income: 1000, FixedExpenses: 50, DebtPayments: 300, Net: 650, CumulativeNet: 1350},
		{Year: 2025, Month: time.March, Income: 0, FixedExpenses: 50, DebtPayments: 0, Net: -50, CumulativeNet: 1300},
	}
	if len(s.ByMonth) != len(want) {
		t.Fatalf("len(ByMonth) = %d, want %d", len(s.ByMonth), len(want))
	}
	for i, w := range want {
		got := s.ByMonth[i]
		if got.Year != w.Year || got.Month != w.Month || got.Income != w.Income || got.FixedExpenses != w.FixedExpenses ||
			got.DebtPayments != w.DebtPayments || got.Net != w.Net || got.CumulativeNet != w.CumulativeNet {
			t.Errorf("month %d = %+v, want %+v", i, got, w)
		}
	}
	if last := s.ByMonth[len(s.ByMonth)-1].CumulativeNet; last != s.ProjectedChange {
		t.Errorf("cumulative net %v != projected change %v", last, s.ProjectedChange)
	}
}

func TestPayoffDate(t *testing.T) {
	cal := NewCalendar(time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }
	tests := []struct {
		name   string
		debt   DebtInstallment
		want   time.Time
		wantOK bool
	}{
		{"exact installments", DebtInstallment{MonthlyPaymentAmount: 100, RemainingAmount: 300, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.January, 31))}, day(2025, time.March, 28), true},
		{"partial last installment", DebtInstallment{MonthlyPaymentAmount: 100, RemainingAmount: 250, Cadence: CadenceWeekly, NextDueDate: ptr(day(2025, time.January, 20))}, day(2025, time.February, 3), true},
		{"single installment", DebtInstallment{MonthlyPaymentAmount: 500, RemainingAmount: 120, Cadence: CadenceQuarterly, NextDueDate: ptr(day(2025, time.February, 1))}, day(2025, time.February, 1), true},
		{"already paid off", DebtInstallment{MonthlyPaymentAmount: 100, RemainingAmount: 0, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.February, 1))}, asOf, true},
		{"overdue start", DebtInstallment{MonthlyPaymentAmount: 50, RemainingAmount: 100, Cadence: CadenceMonthly, NextDueDate: ptr(day(2024, time.December, 10))}, day(2025, time.January, 10), true},
		{"one-off covers balance", DebtInstallment{MonthlyPaymentAmount: 400, RemainingAmount: 400, Cadence: CadenceOneOff, NextDueDate: ptr(day(2025, time.March, 1))}, day(2025, time.March, 1), true},
		{"one-off short of balance", DebtInstallment{MonthlyPaymentAmount: 100, RemainingAmount: 400, Cadence: CadenceOneOff, NextDueDate: ptr(day(2025, time.March, 1))}, time.Time{}, false},
		{"zero payment", DebtInstallment{MonthlyPaymentAmount: 0, RemainingAmount: 400, Cadence: CadenceMonthly, NextDueDate: ptr(day(2025, time.March, 1))}, time.Time{}, false},
		{"no due date", DebtInstallment{MonthlyPaymentAmount: 100, RemainingAmount: 400, Cadence: CadenceMonthly}, time.Time{}, false},
		{"beyond search limit", DebtInstallment{MonthlyPaymentAmount: 1, RemainingAmount: 5000, Cadence: CadenceYearly, NextDueDate: ptr(day(2025, time.March, 1))}, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PayoffDate(cal, tt.debt, asOf)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("PayoffDate() = %s, want %s", got.Format(dateLayout), tt.want.Format(dateLayout))
			}
		})
	}
}

func TestSummarizeDebts_DebtFree(t *testing.T) {
	cal := NewCalendar(time.UTC)
	due := day(2025, time.February, 1)

	paid := []DebtInstallment{
		{ID: "a", MonthlyPaymentAmount: 100, RemainingAmount: 0, Cadence: CadenceMonthly, NextDueDate: &due, Status: DebtActive},
		{ID: "b", MonthlyPaymentAmount: 100, RemainingAmount: 800, Cadence: CadenceMonthly, NextDueDate: &due, Status: DebtCompleted},
	}
	if out := SummarizeDebts(cal, paid, asOf); !out.DebtFree || out.DebtFreeDate != nil {
		t.Errorf("paid off: DebtFree = %v, DebtFreeDate = %v", out.DebtFree, out.DebtFreeDate)
	}
	if out := SummarizeDebts(cal, nil, asOf); !out.DebtFree {
		t.Error("no debts should be debt free")
	}

	stuck := []DebtInstallment{
		{ID: "a", MonthlyPaymentAmount: 100, RemainingAmount: 200, Cadence: CadenceMonthly, NextDueDate: &due, Status: DebtActive},
		{ID: "b", MonthlyPaymentAmount: 0, RemainingAmount: 800, Cadence: CadenceMonthly, NextDueDate: &due, Status: DebtActive},
	}
	out := SummarizeDebts(cal, stuck, asOf)
	if out.DebtFree || out.DebtFreeDate != nil || out.NeverPaidOff != 1 {
		t.Errorf("zero payment: DebtFree = %v, DebtFreeDate = %v, NeverPaidOff = %d", out.DebtFree, out.DebtFreeDate, out.NeverPaidOff)
	}
}
