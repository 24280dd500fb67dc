// Package models defines the server-side domain entities of Tillpoint.
// All money amounts are int64 values in the base currency unit; there are
// no fractional sub-units and no floating-point arithmetic anywhere in the
// money path.
package models

import "time"

// SessionStatus is the lifecycle state of a terminal's cash drawer.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// TerminalSession is one shift of a terminal's cash drawer. At most one
// session per terminal may be OPEN at any instant; the sessions repository
// enforces this with a fail-fast lock and a partial unique index. Sessions
// are historical records and are never deleted.
type TerminalSession struct {
	ID            string
	LocationID    string
	TerminalID    string
	Status        SessionStatus
	OpenedBy      string
	OpeningAmount int64
	OpenedAt      time.Time
	ClosedAt      *time.Time
	ClosingAmount *int64
	Difference    *int64
	ForcedClose   bool
}
