// Package forecast projects an account balance over a fixed horizon by
// expanding recurring obligations and debt installments into dated events.
//
// Everything here is a pure function of its inputs: callers hand in a
// snapshot and get a fresh value back, so concurrent use needs no locking.
package forecast

import (
	"errors"
	"time"
)

// DefaultHorizonDays is the projection length used when none is given
const DefaultHorizonDays = 30

// ErrCadenceStalled is returned when a calendar advance fails to move a
// date forward, which would otherwise loop forever.
var ErrCadenceStalled = errors.New("cadence advance did not progress")

// Direction tells whether an event adds to or subtracts from the balance
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Debt statuses
const (
	DebtActive    = "active"
	DebtCompleted = "completed"
	DebtPaused    = "paused"
)

// RecurringObligation is a recurring income or expense item
type RecurringObligation struct {
	ID             string
	Name           string
	Amount         float64
	Kind           Direction
	Cadence        Cadence
	NextOccurrence time.Time
}

// DebtInstallment is a debt repaid on a cadence. For projection it behaves
// like a recurring expense of MonthlyPaymentAmount.
type DebtInstallment struct {
	ID                   string
	Name                 string
	MonthlyPaymentAmount float64
	RemainingAmount      float64
	Cadence              Cadence
	NextDueDate          *time.Time
	Status               string
}

// IsActive reports whether the debt still produces installments
func (d DebtInstallment) IsActive() bool {
	return d.Status == "" || d.Status == DebtActive
}

// Occurrence is one dated instance of an obligation, before a running
// balance has been assigned.
type Occurrence struct {
	Date        time.Time
	Description string
	Amount      float64
	Direction   Direction
	SourceID    string
	// FromDebt marks installments of a DebtInstallment
	FromDebt bool
}

// ProjectedEvent is an occurrence placed in the projection
type ProjectedEvent struct {
	Occurrence
	RunningBalance float64
}

// Signed returns the event's effect on the balance
func (o Occurrence) Signed() float64 {
	if o.Direction == Income {
		return o.Amount
	}
	return -o.Amount
}

// Projection is the day-by-day outlook produced by Project
type Projection struct {
	StartingBalance float64
	AsOf            time.Time
	HorizonDays     int
	HorizonEnd      time.Time
	Events          []ProjectedEvent
	EndingBalance   float64
}
