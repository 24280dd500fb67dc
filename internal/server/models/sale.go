package models

import "time"

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayCard     PaymentMethod = "CARD"
	PayTransfer PaymentMethod = "TRANSFER"
	PayOther    PaymentMethod = "OTHER"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayCard, PayTransfer, PayOther:
		return true
	}
	return false
}

// Sale is a journal line for one completed sale, attributed to a shift.
// The reconciliation calculator only ever consumes per-method aggregates.
type Sale struct {
	ID        string
	ShiftID   string
	Method    PaymentMethod
	Amount    int64
	CreatedBy string
	Timestamp time.Time
}
