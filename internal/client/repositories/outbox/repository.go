// Package outbox persists queued operations awaiting replay to the backend.
package outbox

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/client/models"
)

type Repository interface {
	// Enqueue stores a new PENDING entry.
	Enqueue(ctx context.Context, e *models.OutboxEntry) error
	// ListPending returns PENDING entries oldest first, preserving the
	// order the operations were performed in.
	ListPending(ctx context.Context) ([]*models.OutboxEntry, error)
	// List returns all entries oldest first, regardless of status.
	List(ctx context.Context) ([]*models.OutboxEntry, error)
	// IncrementRetry bumps the attempt counter and records the last error.
	IncrementRetry(ctx context.Context, id string, lastError string) error
	MarkSynced(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
