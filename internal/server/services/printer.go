package services

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
)

// ReceiptPrinter emits the handover receipt after a successful execution.
// Printing is a best-effort side effect: a failure is logged and does not
// affect the committed handover.
type ReceiptPrinter interface {
	PrintHandoverReceipt(ctx context.Context, summary *models.HandoverSummary) error
}

// LogReceiptPrinter writes the receipt to the structured log. It stands in
// for a physical printer in development and tests.
type LogReceiptPrinter struct {
	logger logging.Logger
}

func NewLogReceiptPrinter(logger logging.Logger) *LogReceiptPrinter {
	return &LogReceiptPrinter{logger: logger}
}

func (p *LogReceiptPrinter) PrintHandoverReceipt(ctx context.Context, summary *models.HandoverSummary) error {
	p.logger.Info(ctx, "handover receipt",
		"shift_id", summary.ShiftID,
		"declared_cash", summary.DeclaredCash,
		"expected_cash", summary.ExpectedCash,
		"diff", summary.Diff,
		"amount_to_keep", summary.AmountToKeep,
		"amount_to_withdraw", summary.AmountToWithdraw,
	)
	return nil
}
