package models

import "time"

// LocalSession mirrors a terminal session in the device-local store.
// Confirmed distinguishes the two phases of a write: false means the row is
// a tentative, optimistic application of a queued operation; true means the
// backend has acknowledged it and the row was reconciled with the server's
// version.
type LocalSession struct {
	ID            string
	LocationID    string
	TerminalID    string
	Status        string
	OpenedBy      string
	OpeningAmount int64
	OpenedAt      time.Time
	ClosingAmount *int64
	Confirmed     bool
}

// LocalMovement mirrors a recorded cash movement, with the same
// tentative/confirmed semantics as LocalSession.
type LocalMovement struct {
	ID        string
	ShiftID   string
	Type      string
	Amount    int64
	Reason    string
	IsCash    bool
	Timestamp time.Time
	Confirmed bool
}
