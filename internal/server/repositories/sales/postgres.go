package sales

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

func (r *PostgresRepository) Create(ctx context.Context, s *models.Sale) (bool, error) {
	query :=
		`INSERT INTO sales_journal (id, shift_id, method, amount, created_by, ts)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.ShiftID, s.Method, s.Amount, s.CreatedBy, s.Timestamp)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) TotalsForShift(ctx context.Context, shiftID string) (models.SalesTotals, error) {
	query :=
		`SELECT
		   COALESCE(SUM(amount) FILTER (WHERE method = $2), 0),
		   COALESCE(SUM(amount) FILTER (WHERE method = $3), 0),
		   COALESCE(SUM(amount) FILTER (WHERE method = $4), 0),
		   COALESCE(SUM(amount) FILTER (WHERE method = $5), 0)
		 FROM sales_journal
		 WHERE shift_id = $1
		 `

	var t models.SalesTotals
	err := r.db.QueryRowContext(ctx, query, shiftID,
		models.PayCash, models.PayCard, models.PayTransfer, models.PayOther).
		Scan(&t.Cash, &t.Card, &t.Transfer, &t.Other)
	if err != nil {
		return models.SalesTotals{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
