package outbox

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tillpoint/internal/client/models"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, e *models.OutboxEntry) error {
	query := `insert into outbox (id, op_type, payload, created_at, status, retry_count, last_error)
		values ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, string(e.OpType), string(e.Payload), e.CreatedAt, string(e.Status), e.RetryCount, e.LastError)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.OutboxEntry, error) {
	query := `select id, op_type, payload, created_at, status, retry_count, last_error
		from outbox where status = $1 order by created_at asc, id asc`
	return r.list(ctx, query, string(models.OutboxPending))
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.OutboxEntry, error) {
	query := `select id, op_type, payload, created_at, status, retry_count, last_error
		from outbox order by created_at asc, id asc`
	return r.list(ctx, query)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.OutboxEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	defer rows.Close()

	var result []*models.OutboxEntry
	for rows.Next() {
		var e models.OutboxEntry
		var opType, payload, status string
		if err := rows.Scan(&e.ID, &opType, &payload, &e.CreatedAt, &status, &e.RetryCount, &e.LastError); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		e.OpType = models.OpType(opType)
		e.Payload = []byte(payload)
		e.Status = models.OutboxStatus(status)
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return result, nil
}

func (r *SQLiteRepository) IncrementRetry(ctx context.Context, id string, lastError string) error {
	query := `update outbox set retry_count = retry_count + 1, last_error = $1 where id = $2`
	return r.update(ctx, query, lastError, id)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	query := `update outbox set status = $1, last_error = '' where id = $2`
	return r.update(ctx, query, string(models.OutboxSynced), id)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `update outbox set status = $1, last_error = $2 where id = $3`
	return r.update(ctx, query, string(models.OutboxFailed), reason, id)
}

func (r *SQLiteRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
