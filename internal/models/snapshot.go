package models

// Snapshot is a self-contained forecast input, used by the preview endpoint
// and by forecastctl. Dates are YYYY-MM-DD.
type Snapshot struct {
	StartingBalance float64              `json:"starting_balance" toml:"starting_balance"`
	AsOf            string               `json:"as_of" toml:"as_of"`
	HorizonDays     int                  `json:"horizon_days" toml:"horizon_days"`
	Obligations     []SnapshotObligation `json:"obligations" toml:"obligations"`
	Debts           []SnapshotDebt       `json:"debts" toml:"debts"`
}

// SnapshotObligation is a recurring item inside a Snapshot
type SnapshotObligation struct {
	ID             string  `json:"id" toml:"id"`
	Name           string  `json:"name" toml:"name"`
	Amount         float64 `json:"amount" toml:"amount"`
	Kind           string  `json:"kind" toml:"kind"`
	Cadence        string  `json:"cadence" toml:"cadence"`
	NextOccurrence string  `json:"next_occurrence" toml:"next_occurrence"`
}

// SnapshotDebt is a debt inside a Snapshot
type SnapshotDebt struct {
	ID                   string  `json:"id" toml:"id"`
	Name                 string  `json:"name" toml:"name"`
	MonthlyPaymentAmount float64 `json:"monthly_payment_amount" toml:"monthly_payment_amount"`
	RemainingAmount      float64 `json:"remaining_amount" toml:"remaining_amount"`
	Cadence              string  `json:"cadence" toml:"cadence"`
	NextDueDate          string  `json:"next_due_date" toml:"next_due_date"`
	Status               string  `json:"status" toml:"status"`
}
