package movements

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

func (r *PostgresRepository) Create(ctx context.Context, m *models.CashMovement) (bool, error) {
	query :=
		`INSERT INTO cash_movements
		   (id, shift_id, type, amount, reason, is_cash, created_by, authorized_by, ts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		m.ID, m.ShiftID, m.Type, m.Amount, m.Reason, m.IsCash, m.CreatedBy, m.AuthorizedBy, m.Timestamp)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CashMovement, error) {
	query :=
		`SELECT id, shift_id, type, amount, reason, is_cash, created_by, authorized_by, ts
		 FROM cash_movements
		 WHERE id = $1
		 `

	m := &models.CashMovement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.ShiftID, &m.Type, &m.Amount, &m.Reason, &m.IsCash, &m.CreatedBy, &m.AuthorizedBy, &m.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListByShift(ctx context.Context, shiftID string) ([]*models.CashMovement, error) {
	query :=
		`SELECT id, shift_id, type, amount, reason, is_cash, created_by, authorized_by, ts
		 FROM cash_movements
		 WHERE shift_id = $1
		 ORDER BY ts ASC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CashMovement
	for rows.Next() {
		m := &models.CashMovement{}
		if err := rows.Scan(&m.ID, &m.ShiftID, &m.Type, &m.Amount, &m.Reason,
			&m.IsCash, &m.CreatedBy, &m.AuthorizedBy, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
