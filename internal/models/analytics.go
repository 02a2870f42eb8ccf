package models

// BalanceForecast represents balance forecast for N days
type BalanceForecast struct {
	InitialBalance float64        `json:"initial_balance"`
	ForecastedDays int            `json:"forecasted_days"`
	DailyForecast  []DailyBalance `json:"daily_forecast"`
}

// DailyBalance represents balance for a specific day
type DailyBalance struct {
	Date    string  `json:"date"` // Format: YYYY-MM-DD
	Balance float64 `json:"balance"`
}

// ForecastEvent is one projected occurrence with the balance after it
type ForecastEvent struct {
	Date           string  `json:"date"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	Direction      string  `json:"direction"`
	RunningBalance float64 `json:"running_balance"`
	SourceID       string  `json:"source_id"`
}

// ForecastResponse is the projection returned to clients
type ForecastResponse struct {
	AsOf            string          `json:"as_of"`
	HorizonDays     int             `json:"horizon_days"`
	StartingBalance float64         `json:"starting_balance"`
	EndingBalance   float64         `json:"ending_balance"`
	Events          []ForecastEvent `json:"events"`
}

// DayGroup lists the events of one date
type DayGroup struct {
	Date   string          `json:"date"`
	Events []ForecastEvent `json:"events"`
}

// WeekGroup lists the events of one ISO week, e.g. "2025-W03"
type WeekGroup struct {
	Week   string          `json:"week"`
	Net    float64         `json:"net"`
	Events []ForecastEvent `json:"events"`
}

// MonthGroup is one month card of the cashflow outlook, e.g. "2025-01"
type MonthGroup struct {
	Month         string  `json:"month"`
	Income        float64 `json:"income"`
	FixedExpenses float64 `json:"fixed_expenses"`
	DebtPayments  float64 `json:"debt_payments"`
	Net           float64 `json:"net"`
	CumulativeNet float64 `json:"cumulative_net"`
	EventCount    int     `json:"event_count"`
}

// SummaryResponse carries the aggregates of a projection
type SummaryResponse struct {
	StartingBalance   float64     `json:"starting_balance"`
	EndingBalance     float64     `json:"ending_balance"`
	ProjectedChange   float64     `json:"projected_change"`
	TotalIncome       float64     `json:"total_income"`
	TotalExpense      float64     `json:"total_expense"`
	LowestBalance     float64     `json:"lowest_balance"`
	LowestBalanceDate string      `json:"lowest_balance_date"`
	DaysBelowZero     int         `json:"days_below_zero"`
	ByDay             []DayGroup  `json:"by_day"`
	ByWeek            []WeekGroup  `json:"by_week"`
	ByMonth           []MonthGroup `json:"by_month"`
	Debts             *DebtOutlook `json:"debts,omitempty"`
}

// DebtOutlook summarizes the active debts of a user
type DebtOutlook struct {
	ActiveCount        int     `json:"active_count"`
	TotalRemaining     float64 `json:"total_remaining"`
	MonthlyPayments    float64 `json:"monthly_payments"`
	RemainingThisMonth float64 `json:"remaining_this_month"`
	OverdueCount       int     `json:"overdue_count"`
	OverdueAmount      float64 `json:"overdue_amount"`
	NextDueName        string  `json:"next_due_name,omitempty"`
	NextDueDate        string  `json:"next_due_date,omitempty"`
	DebtFree           bool    `json:"debt_free"`
	DebtFreeDate       string  `json:"debt_free_date,omitempty"`
	DebtFreeMonth      string  `json:"debt_free_month,omitempty"`
	NeverPaidOff       int     `json:"never_paid_off"`
}
