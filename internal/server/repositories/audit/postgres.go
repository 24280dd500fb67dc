package audit

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query :=
		`INSERT INTO audit_log (id, entity_type, entity_id, action, actor, payload, ts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EntityType, e.EntityID, e.Action, e.Actor, e.Payload, e.Timestamp)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
