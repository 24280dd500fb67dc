// Package localstate keeps the device-local mirror of sessions and
// movements, so the terminal stays usable while the backend is unreachable.
package localstate

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/client/models"
)

type Repository interface {
	// SaveSession inserts or replaces the local copy of a session.
	SaveSession(ctx context.Context, s *models.LocalSession) error
	// GetOpenSession returns the open session for a terminal, or
	// common.ErrNotFound when there is none.
	GetOpenSession(ctx context.Context, terminalID string) (*models.LocalSession, error)
	GetSession(ctx context.Context, id string) (*models.LocalSession, error)
	ConfirmSession(ctx context.Context, id string) error

	SaveMovement(ctx context.Context, m *models.LocalMovement) error
	ListMovements(ctx context.Context, shiftID string) ([]*models.LocalMovement, error)
	ConfirmMovement(ctx context.Context, id string) error
}
