package models

import "time"

// AuditAction names what happened to an entity.
type AuditAction string

const (
	AuditOpenTerminal   AuditAction = "OPEN_TERMINAL"
	AuditCloseTerminal  AuditAction = "CLOSE_TERMINAL"
	AuditForceClose     AuditAction = "FORCE_CLOSE_TERMINAL"
	AuditRecordMovement AuditAction = "RECORD_MOVEMENT"
	AuditHandover       AuditAction = "EXECUTE_HANDOVER"
	AuditRecordSale     AuditAction = "RECORD_SALE"
)

// AuditEntry is an append-only record of a sensitive operation. Payload is
// an opaque JSON document; for handovers it contains the full summary.
type AuditEntry struct {
	ID         string
	EntityType string
	EntityID   string
	Action     AuditAction
	Actor      string
	Payload    []byte
	Timestamp  time.Time
}
