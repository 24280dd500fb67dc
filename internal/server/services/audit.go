package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// auditWriter appends audit entries after the primary operation has
// committed. Appends are fire-and-forget: a failure is logged and dropped,
// never propagated, so auditing can neither roll back nor block the
// operation it describes.
type auditWriter struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func newAuditWriter(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *auditWriter {
	return &auditWriter{db: db, repomanager: m, logger: logger}
}

func (w *auditWriter) append(ctx context.Context, entityType, entityID string, action models.AuditAction, actor string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.Error(ctx, "audit payload marshal failed", "action", action, "error", err)
		return
	}

	entry := &models.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		Payload:    body,
		Timestamp:  time.Now(),
	}

	repo := w.repomanager.Audit(w.db)
	if err := repo.Append(ctx, entry); err != nil {
		w.logger.Error(ctx, "audit append failed", "action", action, "entity_id", entityID, "error", err)
	}
}
