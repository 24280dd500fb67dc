// Package sessions persists terminal cash-drawer sessions. The repository
// is the unit of mutual exclusion for a terminal: open/close transactions
// must first take the fail-fast terminal lock.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// Repository is the storage contract for terminal sessions.
type Repository interface {
	// TryLockTerminal attempts to take an exclusive transaction-scoped lock
	// on the terminal without blocking. It returns false when another
	// transaction holds the lock; the caller must fail with a conflict
	// rather than wait, because an operator is waiting synchronously.
	TryLockTerminal(ctx context.Context, terminalID string) (bool, error)

	// GetOpenByTerminal returns the OPEN session for the terminal, or
	// common.ErrNotFound when the drawer is closed.
	GetOpenByTerminal(ctx context.Context, terminalID string) (*models.TerminalSession, error)

	// GetByID returns a session by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.TerminalSession, error)

	// Create inserts a new OPEN session. The insert is idempotent on the
	// session id: replaying the same id is a no-op and Create reports
	// whether a row was actually inserted.
	Create(ctx context.Context, s *models.TerminalSession) (inserted bool, err error)

	// Close transitions the session OPEN -> CLOSED, recording the counted
	// closing amount and the difference against expectations. It returns
	// common.ErrNotFound when the session is missing or already closed.
	Close(ctx context.Context, id string, closingAmount, difference int64, forced bool) error
}
