// Package api defines the JSON wire types exchanged between the terminal
// client and the backend. Both sides map these DTOs to their own domain
// models; outbox payloads are stored in exactly this shape so a replay goes
// through the same endpoints unchanged.
package api

import "time"

// Error codes returned in ErrorResponse.Code. The client maps them back to
// the shared error taxonomy.
const (
	CodeValidation    = "VALIDATION"
	CodeConflict      = "CONFLICT"
	CodeAuthorization = "AUTHORIZATION"
	CodeNotFound      = "NOT_FOUND"
	CodeRejected      = "REJECTED"
	CodeInvariant     = "INVARIANT_VIOLATION"
	CodeInternal      = "INTERNAL"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

// AuthorizeRequest exchanges a supervisor PIN for a single-use token scoped
// to one operation.
type AuthorizeRequest struct {
	Username  string `json:"username" binding:"required"`
	PIN       string `json:"pin" binding:"required"`
	Operation string `json:"operation" binding:"required"`
}

type AuthorizeResponse struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest provisions a new employee. Only roles allowed to manage
// users may call it.
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	PIN        string `json:"pin" binding:"required"`
	Role       string `json:"role" binding:"required"`
	LocationID string `json:"location_id"`
}

type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	LocationID string `json:"location_id,omitempty"`
}

// OpenTerminalRequest opens a session. SessionID is the client-generated
// idempotency key; the server assigns one when it is empty.
type OpenTerminalRequest struct {
	SessionID     string `json:"session_id"`
	LocationID    string `json:"location_id" binding:"required"`
	OpeningAmount int64  `json:"opening_amount"`
}

// CloseTerminalRequest closes the terminal's open session. SessionID names
// the session the client intends to close; a replay that finds it already
// closed is answered with the stored result instead of an error.
type CloseTerminalRequest struct {
	SessionID     string `json:"session_id"`
	ClosingAmount int64  `json:"closing_amount"`
	Force         bool   `json:"force"`
	AuthTokenID   string `json:"auth_token_id"`
}

type Session struct {
	ID            string     `json:"id"`
	LocationID    string     `json:"location_id"`
	TerminalID    string     `json:"terminal_id"`
	Status        string     `json:"status"`
	OpenedBy      string     `json:"opened_by"`
	OpeningAmount int64      `json:"opening_amount"`
	OpenedAt      time.Time  `json:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	ClosingAmount *int64     `json:"closing_amount,omitempty"`
	Difference    *int64     `json:"difference,omitempty"`
	ForcedClose   bool       `json:"forced_close,omitempty"`
}

// RecordMovementRequest appends a ledger entry to the shift. MovementID is
// the idempotency key.
type RecordMovementRequest struct {
	MovementID  string `json:"movement_id"`
	Type        string `json:"type" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	IsCash      bool   `json:"is_cash"`
	AuthTokenID string `json:"auth_token_id"`
}

type Movement struct {
	ID           string    `json:"id"`
	ShiftID      string    `json:"shift_id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	Reason       string    `json:"reason"`
	IsCash       bool      `json:"is_cash"`
	CreatedBy    string    `json:"created_by"`
	AuthorizedBy *string   `json:"authorized_by,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// RecordSaleRequest journals a completed sale. SaleID is the idempotency key.
type RecordSaleRequest struct {
	SaleID  string `json:"sale_id"`
	ShiftID string `json:"shift_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
}

type Sale struct {
	ID        string    `json:"id"`
	ShiftID   string    `json:"shift_id"`
	Method    string    `json:"method"`
	Amount    int64     `json:"amount"`
	CreatedBy string    `json:"created_by"`
	Timestamp time.Time `json:"timestamp"`
}

type CalculateHandoverRequest struct {
	DeclaredCash int64 `json:"declared_cash"`
}

// ExecuteHandoverRequest commits the handover described by Summary. The
// supervisor token is mandatory regardless of the diff.
type ExecuteHandoverRequest struct {
	Summary     HandoverSummary `json:"summary" binding:"required"`
	AuthTokenID string          `json:"auth_token_id"`
}

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
