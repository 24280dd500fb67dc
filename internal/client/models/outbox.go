// Package models defines the terminal client's local entities: the durable
// outbox and the tentative/confirmed mirror of server state.
package models

import "time"

// OutboxStatus is the replay state of a queued operation.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSynced  OutboxStatus = "SYNCED"
	OutboxFailed  OutboxStatus = "FAILED"
)

// OpType names the buffered operation so the sync engine can route its
// payload to the right endpoint.
type OpType string

const (
	OpOpenTerminal   OpType = "OPEN_TERMINAL"
	OpCloseTerminal  OpType = "CLOSE_TERMINAL"
	OpRecordMovement OpType = "RECORD_MOVEMENT"
	OpRecordSale     OpType = "RECORD_SALE"
)

// OutboxEntry is one durable queued mutation. ID doubles as the idempotency
// key: the server applies an id at most once, so replaying an entry twice
// leaves backend state unchanged. Entries transition PENDING -> SYNCED on
// successful replay, or PENDING -> FAILED on retry exhaustion or a
// domain-level rejection; they are never silently discarded.
type OutboxEntry struct {
	ID         string
	OpType     OpType
	Payload    []byte
	CreatedAt  time.Time
	Status     OutboxStatus
	RetryCount int
	LastError  string
}
