package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/repomanager"
)

// HandoverService computes the end-of-shift reconciliation and executes the
// handover that closes the shift. Calculation is pure and repeatable;
// execution commits atomically or not at all.
type HandoverService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authGate    *AuthGateService
	cfg         *config.Config
	logger      logging.Logger
	audit       *auditWriter
	printer     ReceiptPrinter

	now func() time.Time
}

// NewHandoverService constructs a HandoverService using repositories,
// server config and the receipt printer.
func NewHandoverService(db *sql.DB, m repomanager.RepositoryManager, gate *AuthGateService, cfg *config.Config, logger logging.Logger, printer ReceiptPrinter) *HandoverService {
	return &HandoverService{
		db:          db,
		repomanager: m,
		authGate:    gate,
		cfg:         cfg,
		logger:      logger,
		audit:       newAuditWriter(db, m, logger),
		printer:     printer,
		now:         time.Now,
	}
}

// Calculate produces the handover summary for the terminal's open shift and
// the physically counted cash. It is side-effect free and may be called any
// number of times before Execute; abandoning it commits nothing.
func (s *HandoverService) Calculate(ctx context.Context, terminalID string, declaredCash int64) (*models.HandoverSummary, error) {
	if declaredCash < 0 {
		return nil, fmt.Errorf("declared cash must not be negative: %w", common.ErrValidation)
	}

	session, err := s.repomanager.Sessions(s.db).GetOpenByTerminal(ctx, terminalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("no open session on terminal %s: %w", terminalID, common.ErrNotFound)
		}
		return nil, err
	}

	movs, err := s.repomanager.Movements(s.db).ListByShift(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repomanager.Sales(s.db).TotalsForShift(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return buildSummary(session, movs, totals, declaredCash, s.cfg.BaseFloat)
}

// Execute closes the shift described by the summary. A valid supervisor
// token is always required regardless of the diff; shift handover is
// never threshold-gated. The summary is recomputed inside a serializable
// transaction; if movements or sales changed since Calculate, the operator
// gets ErrConflict and must recalculate. On success the session is CLOSED,
// a full audit entry is appended and the receipt is printed best-effort.
// On any failure the session remains OPEN with no partial state.
func (s *HandoverService) Execute(ctx context.Context, terminalID string, submitted *models.HandoverSummary, authTokenID string) (*models.HandoverSummary, error) {
	authorizedBy, err := s.authGate.Consume(authTokenID, models.OpExecuteHandover)
	if err != nil {
		return nil, err
	}
	if submitted == nil {
		return nil, fmt.Errorf("summary is required: %w", common.ErrValidation)
	}

	var summary *models.HandoverSummary

	err = dbx.WithSerializableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)

		locked, err := repo.TryLockTerminal(ctx, terminalID)
		if err != nil {
			return err
		}
		if !locked {
			return fmt.Errorf("terminal %s is busy: %w", terminalID, common.ErrConflict)
		}

		session, err := repo.GetOpenByTerminal(ctx, terminalID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no open session on terminal %s: %w", terminalID, common.ErrNotFound)
			}
			return err
		}

		movs, err := s.repomanager.Movements(tx).ListByShift(ctx, session.ID)
		if err != nil {
			return err
		}
		totals, err := s.repomanager.Sales(tx).TotalsForShift(ctx, session.ID)
		if err != nil {
			return err
		}

		summary, err = buildSummary(session, movs, totals, submitted.DeclaredCash, s.cfg.BaseFloat)
		if err != nil {
			return err
		}

		if summary.ExpectedCash != submitted.ExpectedCash || summary.Diff != submitted.Diff {
			return fmt.Errorf("shift changed since calculation, recalculate before executing: %w", common.ErrConflict)
		}

		return repo.Close(ctx, session.ID, summary.DeclaredCash, summary.Diff, false)
	})
	if err != nil {
		return nil, err
	}

	s.audit.append(ctx, "terminal_session", summary.ShiftID, models.AuditHandover, authorizedBy, summary)

	if err := s.printer.PrintHandoverReceipt(ctx, summary); err != nil {
		s.logger.Warn(ctx, "receipt print failed", "shift_id", summary.ShiftID, "error", err)
	}

	s.logger.Info(ctx, "handover executed",
		"terminal_id", terminalID, "shift_id", summary.ShiftID, "diff", summary.Diff)
	return summary, nil
}

// buildSummary derives the reconciliation figures from the shift's state.
// All arithmetic is on int64 base currency units. The base float retained
// for the next shift is capped at the declared cash, so the keep/withdraw
// split always sums to the declared amount exactly.
func buildSummary(session *models.TerminalSession, movs []*models.CashMovement, totals models.SalesTotals, declaredCash, baseFloat int64) (*models.HandoverSummary, error) {
	cashIn, cashOut := sumCashMovements(movs)

	expected := session.OpeningAmount + totals.Cash + cashIn - cashOut

	keep := baseFloat
	if keep > declaredCash {
		keep = declaredCash
	}
	if keep < 0 {
		keep = 0
	}

	summary := &models.HandoverSummary{
		ShiftID:          session.ID,
		OpeningAmount:    session.OpeningAmount,
		CashSales:        totals.Cash,
		CardSales:        totals.Card,
		TransferSales:    totals.Transfer,
		OtherSales:       totals.Other,
		TotalSales:       totals.Total(),
		CashIn:           cashIn,
		CashOut:          cashOut,
		DeclaredCash:     declaredCash,
		ExpectedCash:     expected,
		Diff:             declaredCash - expected,
		AmountToKeep:     keep,
		AmountToWithdraw: declaredCash - keep,
	}

	if summary.AmountToKeep+summary.AmountToWithdraw != summary.DeclaredCash {
		return nil, fmt.Errorf("cash split %d+%d does not sum to declared %d: %w",
			summary.AmountToKeep, summary.AmountToWithdraw, summary.DeclaredCash, common.ErrInvariantViolation)
	}
	if summary.ExpectedCash != summary.OpeningAmount+summary.CashSales+summary.CashIn-summary.CashOut {
		return nil, fmt.Errorf("expected cash identity broken: %w", common.ErrInvariantViolation)
	}

	return summary, nil
}
