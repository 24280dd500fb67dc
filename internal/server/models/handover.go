package models

// SalesTotals aggregates a shift's sales by payment method, as reported by
// the sales journal.
type SalesTotals struct {
	Cash     int64 `json:"cash"`
	Card     int64 `json:"card"`
	Transfer int64 `json:"transfer"`
	Other    int64 `json:"other"`
}

// Total returns the sum over all payment methods.
func (t SalesTotals) Total() int64 {
	return t.Cash + t.Card + t.Transfer + t.Other
}

// HandoverSummary is the computed end-of-shift reconciliation. It is a value
// object: it is never stored as an entity of its own and is persisted only
// as an audit payload.
//
// Identities the calculator guarantees:
//
//	ExpectedCash = OpeningAmount + CashSales + CashIn - CashOut
//	Diff         = DeclaredCash - ExpectedCash
//	AmountToKeep + AmountToWithdraw = DeclaredCash
type HandoverSummary struct {
	ShiftID          string `json:"shift_id"`
	OpeningAmount    int64  `json:"opening_amount"`
	CashSales        int64  `json:"cash_sales"`
	CardSales        int64  `json:"card_sales"`
	TransferSales    int64  `json:"transfer_sales"`
	OtherSales       int64  `json:"other_sales"`
	TotalSales       int64  `json:"total_sales"`
	CashIn           int64  `json:"cash_in"`
	CashOut          int64  `json:"cash_out"`
	DeclaredCash     int64  `json:"declared_cash"`
	ExpectedCash     int64  `json:"expected_cash"`
	Diff             int64  `json:"diff"`
	AmountToKeep     int64  `json:"amount_to_keep"`
	AmountToWithdraw int64  `json:"amount_to_withdraw"`
}
