package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

const monthLayout = "2006-01"

// ErrInvalidSnapshot is returned when a supplied snapshot cannot be projected
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ObligationsFromItems maps stored recurring items onto engine obligations.
// Items without a due date are kept; the engine skips them.
func ObligationsFromItems(cal forecast.Calendar, items []models.RecurringItem) []forecast.RecurringObligation {
	out := make([]forecast.RecurringObligation, 0, len(items))
	for _, item := range items {
		ob := forecast.RecurringObligation{
			ID:      strconv.FormatInt(item.ID, 10),
			Name:    item.Name,
			Amount:  item.Amount,
			Kind:    forecast.Expense,
			Cadence: forecast.ParseCadence(item.Cadence),
		}
		if item.Type == string(forecast.Income) {
			ob.Kind = forecast.Income
		}
		if next := anchor(cal, item.NextDueDate); next != nil {
			ob.NextOccurrence = *next
		}
		out = append(out, ob)
	}
	return out
}

// InstallmentsFromDebts maps stored debts onto engine installments
func InstallmentsFromDebts(cal forecast.Calendar, debts []models.Debt) []forecast.DebtInstallment {
	out := make([]forecast.DebtInstallment, 0, len(debts))
	for _, d := range debts {
		out = append(out, forecast.DebtInstallment{
			ID:                   "debt-" + strconv.FormatInt(d.ID, 10),
			Name:                 d.Name,
			MonthlyPaymentAmount: d.InstallmentAmount,
			RemainingAmount:      d.RemainingAmount,
			Cadence:              forecast.ParseCadence(d.Cadence),
			NextDueDate:          anchor(cal, d.NextDueDate),
			Status:               d.Status,
		})
	}
	return out
}

// ParseSnapshot validates a wire snapshot. An empty as_of means now and a
// zero horizon means defaultDays.
func ParseSnapshot(cal forecast.Calendar, in models.Snapshot, now time.Time, defaultDays int) (*Snapshot, error) {
	snap := &Snapshot{
		StartingBalance: in.StartingBalance,
		AsOf:            cal.Midday(now),
		HorizonDays:     in.HorizonDays,
	}
	if in.AsOf != "" {
		asOf, err := parseDate(cal, in.AsOf)
		if err != nil {
			return nil, fmt.Errorf("%w: as_of: %v", ErrInvalidSnapshot, err)
		}
		snap.AsOf = asOf
	}
	if snap.HorizonDays == 0 {
		snap.HorizonDays = defaultDays
	}
	if snap.HorizonDays < 0 || snap.HorizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("%w: %d days (allowed 1..%d)", ErrInvalidHorizon, snap.HorizonDays, MaxHorizonDays)
	}

	for i, o := range in.Obligations {
		if o.Amount < 0 {
			return nil, fmt.Errorf("%w: obligation %d (%s): negative amount", ErrInvalidSnapshot, i, o.ID)
		}
		kind := forecast.Direction(strings.ToLower(strings.TrimSpace(o.Kind)))
		if kind != forecast.Income && kind != forecast.Expense {
			return nil, fmt.Errorf("%w: obligation %d (%s): kind must be income or expense, got %q", ErrInvalidSnapshot, i, o.ID, o.Kind)
		}
		next, err := parseDate(cal, o.NextOccurrence)
		if err != nil {
			return nil, fmt.Errorf("%w: obligation %d (%s): %v", ErrInvalidSnapshot, i, o.ID, err)
		}
		snap.Obligations = append(snap.Obligations, forecast.RecurringObligation{
			ID:             o.ID,
			Name:           o.Name,
			Amount:         o.Amount,
			Kind:           kind,
			Cadence:        forecast.ParseCadence(o.Cadence),
			NextOccurrence: next,
		})
	}

	for i, d := range in.Debts {
		if d.MonthlyPaymentAmount < 0 {
			return nil, fmt.Errorf("%w: debt %d (%s): negative payment", ErrInvalidSnapshot, i, d.ID)
		}
		inst := forecast.DebtInstallment{
			ID:                   d.ID,
			Name:                 d.Name,
			MonthlyPaymentAmount: d.MonthlyPaymentAmount,
			RemainingAmount:      d.RemainingAmount,
			Cadence:              forecast.ParseCadence(d.Cadence),
			Status:               d.Status,
		}
		if d.NextDueDate != "" {
			due, err := parseDate(cal, d.NextDueDate)
			if err != nil {
				return nil, fmt.Errorf("%w: debt %d (%s): %v", ErrInvalidSnapshot, i, d.ID, err)
			}
			inst.NextDueDate = &due
		}
		snap.Debts = append(snap.Debts, inst)
	}
	return snap, nil
}

func parseDate(cal forecast.Calendar, s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	return cal.Date(d.Year(), d.Month(), d.Day()), nil
}

// anchor keeps the calendar date of a stored DATE value. The driver returns
// those as UTC midnight, which would shift a day in zones west of UTC.
func anchor(cal forecast.Calendar, t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := cal.Date(t.Year(), t.Month(), t.Day())
	return &d
}

// ToForecastEvents renders projected events for the wire
func ToForecastEvents(events []forecast.ProjectedEvent) []models.ForecastEvent {
	out := make([]models.ForecastEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, models.ForecastEvent{
			Date:           ev.Date.Format(DateLayout),
			Description:    ev.Description,
			Amount:         ev.Amount,
			Direction:      string(ev.Direction),
			RunningBalance: ev.RunningBalance,
			SourceID:       ev.SourceID,
		})
	}
	return out
}

// ToForecastResponse renders a projection for the wire
func ToForecastResponse(p *forecast.Projection) *models.ForecastResponse {
	return &models.ForecastResponse{
		AsOf:            p.AsOf.Format(DateLayout),
		HorizonDays:     p.HorizonDays,
		StartingBalance: p.StartingBalance,
		EndingBalance:   p.EndingBalance,
		Events:          ToForecastEvents(p.Events),
	}
}

// ToSummaryResponse renders a summary for the wire
func ToSummaryResponse(s forecast.Summary) *models.SummaryResponse {
	resp := &models.SummaryResponse{
		StartingBalance:   s.StartingBalance,
		EndingBalance:     s.EndingBalance,
		ProjectedChange:   s.ProjectedChange,
		TotalIncome:       s.TotalIncome,
		TotalExpense:      s.TotalExpense,
		LowestBalance:     s.LowestBalance,
		LowestBalanceDate: s.LowestBalanceDate.Format(DateLayout),
		DaysBelowZero:     s.DaysBelowZero,
		ByDay:             make([]models.DayGroup, 0, len(s.ByDay)),
		ByWeek:            make([]models.WeekGroup, 0, len(s.ByWeek)),
		ByMonth:           make([]models.MonthGroup, 0, len(s.ByMonth)),
	}
	for _, g := range s.ByDay {
		resp.ByDay = append(resp.ByDay, models.DayGroup{Date: g.Date.Format(DateLayout), Events: ToForecastEvents(g.Events)})
	}
	for _, g := range s.ByWeek {
		resp.ByWeek = append(resp.ByWeek, models.WeekGroup{Week: fmt.Sprintf("%04d-W%02d", g.Year, g.Week), Net: g.Net, Events: ToForecastEvents(g.Events)})
	}
	for _, g := range s.ByMonth {
		resp.ByMonth = append(resp.ByMonth, models.MonthGroup{
			Month:         fmt.Sprintf("%04d-%02d", g.Year, int(g.Month)),
			Income:        g.Income,
			FixedExpenses: g.FixedExpenses,
			DebtPayments:  g.DebtPayments,
			Net:           g.Net,
			CumulativeNet: g.CumulativeNet,
			EventCount:    len(g.Events),
		})
	}
	return resp
}

// ToBalanceForecast renders the daily balance series
func ToBalanceForecast(p *forecast.Projection, days []forecast.DailyBalance) *models.BalanceForecast {
	out := &models.BalanceForecast{
		InitialBalance: p.StartingBalance,
		ForecastedDays: p.HorizonDays,
		DailyForecast:  make([]models.DailyBalance, 0, len(days)),
	}
	for _, d := range days {
		out.DailyForecast = append(out.DailyForecast, models.DailyBalance{Date: d.Date.Format(DateLayout), Balance: d.Balance})
	}
	return out
}

// ToDebtOutlook renders debt aggregates
func ToDebtOutlook(o forecast.DebtOutlook) *models.DebtOutlook {
	out := &models.DebtOutlook{
		ActiveCount:        o.ActiveCount,
		TotalRemaining:     o.TotalRemaining,
		MonthlyPayments:    o.MonthlyPayments,
		RemainingThisMonth: o.RemainingThisMonth,
		OverdueCount:       o.OverdueCount,
		OverdueAmount:      o.OverdueAmount,
	}
	if o.NextDue != nil && o.NextDue.NextDueDate != nil {
		out.NextDueName = o.NextDue.Name
		out.NextDueDate = o.NextDue.NextDueDate.Format(DateLayout)
	}
	out.DebtFree = o.DebtFree
	out.NeverPaidOff = o.NeverPaidOff
	if o.DebtFreeDate != nil {
		out.DebtFreeDate = o.DebtFreeDate.Format(DateLayout)
		out.DebtFreeMonth = o.DebtFreeDate.Format(monthLayout)
	}
	return out
}
