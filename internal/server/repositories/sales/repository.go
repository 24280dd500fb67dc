// Package sales persists the sales journal and answers the per-method
// aggregation the reconciliation calculator consumes.
package sales

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// Repository is the storage contract for the sales journal.
type Repository interface {
	// Create records a sale. The insert is idempotent on the sale id and
	// reports whether a row was actually inserted.
	Create(ctx context.Context, s *models.Sale) (inserted bool, err error)

	// TotalsForShift aggregates the shift's sales by payment method.
	// Shifts without sales yield zero totals, not an error.
	TotalsForShift(ctx context.Context, shiftID string) (models.SalesTotals, error)
}
