// Package movements persists the append-only cash movement ledger. Entries
// are never updated or deleted; corrections are new compensating entries.
package movements

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// Repository is the storage contract for ledger entries.
type Repository interface {
	// Create appends a movement. The insert is idempotent on the movement
	// id and reports whether a row was actually inserted.
	Create(ctx context.Context, m *models.CashMovement) (inserted bool, err error)

	// GetByID returns a movement by id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.CashMovement, error)

	// ListByShift returns the shift's movements ordered by timestamp
	// ascending.
	ListByShift(ctx context.Context, shiftID string) ([]*models.CashMovement, error)
}
