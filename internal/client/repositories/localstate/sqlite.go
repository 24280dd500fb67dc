package localstate

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) SaveSession(ctx context.Context, s *models.LocalSession) error {
	query := `insert into local_sessions
		(id, location_id, terminal_id, status, opened_by, opening_amount, opened_at, closing_amount, confirmed)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		on conflict (id) do update set
			status = excluded.status,
			closing_amount = excluded.closing_amount,
			confirmed = excluded.confirmed`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.LocationID, s.TerminalID, s.Status, s.OpenedBy,
		s.OpeningAmount, s.OpenedAt, s.ClosingAmount, s.Confirmed)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return nil
}

func (r *SQLiteRepository) GetOpenSession(ctx context.Context, terminalID string) (*models.LocalSession, error) {
	query := `select id, location_id, terminal_id, status, opened_by, opening_amount, opened_at, closing_amount, confirmed
		from local_sessions where terminal_id = $1 and status = 'OPEN'`
	return r.getSession(ctx, query, terminalID)
}

func (r *SQLiteRepository) GetSession(ctx context.Context, id string) (*models.LocalSession, error) {
	query := `select id, location_id, terminal_id, status, opened_by, opening_amount, opened_at, closing_amount, confirmed
		from local_sessions where id = $1`
	return r.getSession(ctx, query, id)
}

func (r *SQLiteRepository) getSession(ctx context.Context, query string, arg string) (*models.LocalSession, error) {
	var s models.LocalSession
	row := r.db.QueryRowContext(ctx, query, arg)
	err := row.Scan(&s.ID, &s.LocationID, &s.TerminalID, &s.Status, &s.OpenedBy,
		&s.OpeningAmount, &s.OpenedAt, &s.ClosingAmount, &s.Confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return &s, nil
}

func (r *SQLiteRepository) ConfirmSession(ctx context.Context, id string) error {
	return r.update(ctx, `update local_sessions set confirmed = 1 where id = $1`, id)
}

func (r *SQLiteRepository) SaveMovement(ctx context.Context, m *models.LocalMovement) error {
	query := `insert into local_movements (id, shift_id, type, amount, reason, is_cash, ts, confirmed)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		on conflict (id) do update set confirmed = excluded.confirmed`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.ShiftID, m.Type, m.Amount, m.Reason, m.IsCash, m.Timestamp, m.Confirmed)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return nil
}

func (r *SQLiteRepository) ListMovements(ctx context.Context, shiftID string) ([]*models.LocalMovement, error) {
	query := `select id, shift_id, type, amount, reason, is_cash, ts, confirmed
		from local_movements where shift_id = $1 order by ts asc, id asc`
	rows, err := r.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	defer rows.Close()

	var result []*models.LocalMovement
	for rows.Next() {
		var m models.LocalMovement
		if err := rows.Scan(&m.ID, &m.ShiftID, &m.Type, &m.Amount, &m.Reason, &m.IsCash, &m.Timestamp, &m.Confirmed); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return result, nil
}

func (r *SQLiteRepository) ConfirmMovement(ctx context.Context, id string) error {
	return r.update(ctx, `update local_movements set confirmed = 1 where id = $1`, id)
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
