package models

import "time"

// Debt represents a loan, card balance or BNPL plan repaid in installments
type Debt struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	Name              string     `json:"name"`
	Creditor          string     `json:"creditor"`
	DebtType          string     `json:"debt_type"` // bnpl, credit_card, loan, one_off, family, other
	OriginalAmount    float64    `json:"original_amount"`
	RemainingAmount   float64    `json:"remaining_amount"`
	InstallmentAmount float64    `json:"installment_amount"`
	Cadence           string     `json:"cadence"`
	NextDueDate       *time.Time `json:"next_due_date"`
	Status            string     `json:"status"` // active, completed, paused
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
