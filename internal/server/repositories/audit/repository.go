// Package audit persists the append-only audit trail. Appends are
// fire-and-forget from the caller's point of view: an audit failure is
// logged but never rolls back or blocks the primary operation.
package audit

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// Repository is the storage contract for audit entries.
type Repository interface {
	Append(ctx context.Context, e *models.AuditEntry) error
}
