package models

import "github.com/dmitrijs2005/tillpoint/internal/api"

// Outbox payloads wrap the wire request together with the path parameters
// the endpoint needs, so a replay goes through the same API call as the
// original attempt.

type OpenTerminalPayload struct {
	TerminalID string                  `json:"terminal_id"`
	Request    api.OpenTerminalRequest `json:"request"`
}

type CloseTerminalPayload struct {
	TerminalID string                   `json:"terminal_id"`
	Request    api.CloseTerminalRequest `json:"request"`
}

type RecordMovementPayload struct {
	ShiftID string                    `json:"shift_id"`
	Request api.RecordMovementRequest `json:"request"`
}

type RecordSalePayload struct {
	Request api.RecordSaleRequest `json:"request"`
}
