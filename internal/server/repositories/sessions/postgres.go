package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// TryLockTerminal uses a transaction-scoped advisory lock keyed on the
// terminal id. pg_try_advisory_xact_lock never blocks: a concurrent holder
// makes it return false immediately, and the lock is released automatically
// on commit or rollback.
func (r *PostgresRepository) TryLockTerminal(ctx context.Context, terminalID string) (bool, error) {
	query := `SELECT pg_try_advisory_xact_lock(hashtext($1))`

	var acquired bool
	if err := r.db.QueryRowContext(ctx, query, terminalID).Scan(&acquired); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return acquired, nil
}

const sessionColumns = `id, location_id, terminal_id, status, opened_by, opening_amount,
	 opened_at, closed_at, closing_amount, difference, forced_close`

func scanSession(row *sql.Row) (*models.TerminalSession, error) {
	s := &models.TerminalSession{}
	err := row.Scan(&s.ID, &s.LocationID, &s.TerminalID, &s.Status, &s.OpenedBy,
		&s.OpeningAmount, &s.OpenedAt, &s.ClosedAt, &s.ClosingAmount, &s.Difference, &s.ForcedClose)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetOpenByTerminal(ctx context.Context, terminalID string) (*models.TerminalSession, error) {
	query :=
		`SELECT ` + sessionColumns + `
		 FROM terminal_sessions
		 WHERE terminal_id = $1 AND status = $2
		 `

	return scanSession(r.db.QueryRowContext(ctx, query, terminalID, models.SessionOpen))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.TerminalSession, error) {
	query :=
		`SELECT ` + sessionColumns + `
		 FROM terminal_sessions
		 WHERE id = $1
		 `

	return scanSession(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts the session; the id doubles as the idempotency key, so a
// replayed insert conflicts on the primary key and becomes a no-op.
func (r *PostgresRepository) Create(ctx context.Context, s *models.TerminalSession) (bool, error) {
	query :=
		`INSERT INTO terminal_sessions
		   (id, location_id, terminal_id, status, opened_by, opening_amount, opened_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.LocationID, s.TerminalID, s.Status, s.OpenedBy, s.OpeningAmount, s.OpenedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Close(ctx context.Context, id string, closingAmount, difference int64, forced bool) error {
	query :=
		`UPDATE terminal_sessions
		 SET status = $1, closing_amount = $2, difference = $3, closed_at = now(), forced_close = $4
		 WHERE id = $5 AND status = $6
		 `

	res, err := r.db.ExecContext(ctx, query,
		models.SessionClosed, closingAmount, difference, forced, id, models.SessionOpen)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
