package models

import "time"

// MovementType is the direction of a manual cash-affecting event.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// MovementReason is the enumerated business reason for a movement.
type MovementReason string

const (
	ReasonCashDeposit    MovementReason = "CASH_DEPOSIT"
	ReasonCashWithdrawal MovementReason = "CASH_WITHDRAWAL"
	ReasonCashTransfer   MovementReason = "CASH_TRANSFER"
	ReasonBankDeposit    MovementReason = "BANK_DEPOSIT"
	ReasonExpense        MovementReason = "EXPENSE"
	ReasonCorrection     MovementReason = "CORRECTION"
)

// ValidReason reports whether r is one of the known movement reasons.
func ValidReason(r MovementReason) bool {
	switch r {
	case ReasonCashDeposit, ReasonCashWithdrawal, ReasonCashTransfer,
		ReasonBankDeposit, ReasonExpense, ReasonCorrection:
		return true
	}
	return false
}

// CashMovement is an append-only ledger entry for a shift. Amount is always
// positive; the direction is carried by Type. Entries are immutable once
// created; corrections are new compensating entries, never edits. IsCash
// distinguishes drawer-affecting entries from card/transfer bookkeeping.
type CashMovement struct {
	ID           string
	ShiftID      string
	Type         MovementType
	Amount       int64
	Reason       MovementReason
	IsCash       bool
	CreatedBy    string
	AuthorizedBy *string
	Timestamp    time.Time
}
