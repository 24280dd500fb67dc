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
	"github.com/google/uuid"
)

// TerminalService owns the open/closed lifecycle of a terminal's cash
// drawer. All state transitions for one terminal are totally ordered by the
// fail-fast advisory lock taken inside the open/close transactions.
type TerminalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authGate    *AuthGateService
	cfg         *config.Config
	logger      logging.Logger
	audit       *auditWriter

	now func() time.Time
}

// NewTerminalService constructs a TerminalService using repositories and
// server config.
func NewTerminalService(db *sql.DB, m repomanager.RepositoryManager, gate *AuthGateService, cfg *config.Config, logger logging.Logger) *TerminalService {
	return &TerminalService{
		db:          db,
		repomanager: m,
		authGate:    gate,
		cfg:         cfg,
		logger:      logger,
		audit:       newAuditWriter(db, m, logger),
		now:         time.Now,
	}
}

// OpenParams are the arguments for opening a terminal session. SessionID is
// the client-generated idempotency key; when empty a fresh id is assigned.
type OpenParams struct {
	SessionID     string
	LocationID    string
	TerminalID    string
	UserID        string
	OpeningAmount int64
}

// Open creates a new OPEN session for the terminal. The existence check and
// the insert happen as one locked transaction: a concurrent attempt fails
// immediately with ErrConflict instead of queueing, because an operator is
// waiting at the register. A repeated open from the same user within the
// configured double-submit window returns the existing session instead of
// erroring.
func (s *TerminalService) Open(ctx context.Context, p OpenParams) (*models.TerminalSession, error) {
	if p.TerminalID == "" || p.LocationID == "" || p.UserID == "" {
		return nil, fmt.Errorf("terminal, location and user are required: %w", common.ErrValidation)
	}
	if p.OpeningAmount < 0 {
		return nil, fmt.Errorf("opening amount must not be negative: %w", common.ErrValidation)
	}
	if p.SessionID == "" {
		p.SessionID = uuid.NewString()
	} else if _, err := uuid.Parse(p.SessionID); err != nil {
		return nil, fmt.Errorf("session id must be a UUID: %w", common.ErrValidation)
	}

	var session *models.TerminalSession

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)

		locked, err := repo.TryLockTerminal(ctx, p.TerminalID)
		if err != nil {
			return err
		}
		if !locked {
			return fmt.Errorf("terminal %s is busy: %w", p.TerminalID, common.ErrConflict)
		}

		existing, err := repo.GetOpenByTerminal(ctx, p.TerminalID)
		if err == nil {
			// Idempotent replay of the same open.
			if existing.ID == p.SessionID {
				session = existing
				return nil
			}
			// Double-submitted open from the same operator.
			if existing.OpenedBy == p.UserID && s.now().Sub(existing.OpenedAt) <= s.cfg.DoubleSubmitWindow {
				session = existing
				return nil
			}
			return fmt.Errorf("terminal %s already has an open session: %w", p.TerminalID, common.ErrConflict)
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		created := &models.TerminalSession{
			ID:            p.SessionID,
			LocationID:    p.LocationID,
			TerminalID:    p.TerminalID,
			Status:        models.SessionOpen,
			OpenedBy:      p.UserID,
			OpeningAmount: p.OpeningAmount,
			OpenedAt:      s.now(),
		}

		inserted, err := repo.Create(ctx, created)
		if err != nil {
			return err
		}
		if !inserted {
			// The same session id was applied earlier; read back the first
			// application's result.
			created, err = repo.GetByID(ctx, p.SessionID)
			if err != nil {
				return err
			}
		}

		session = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.append(ctx, "terminal_session", session.ID, models.AuditOpenTerminal, p.UserID, session)
	s.logger.Info(ctx, "terminal opened", "terminal_id", p.TerminalID, "session_id", session.ID)
	return session, nil
}

// Close transitions the terminal's OPEN session to CLOSED, recording the
// counted closing amount and the difference against the expected drawer
// contents. A non-empty sessionID makes the close idempotent: replaying it
// after the session was already closed returns the stored result.
func (s *TerminalService) Close(ctx context.Context, terminalID, sessionID, userID string, closingAmount int64) (*models.TerminalSession, error) {
	return s.close(ctx, terminalID, sessionID, userID, closingAmount, "")
}

// ForceClose closes the session on behalf of a supervisor, e.g. when the
// opening cashier is unavailable. It requires a valid single-use
// authorization token and records the forced closure in the audit trail.
func (s *TerminalService) ForceClose(ctx context.Context, terminalID, sessionID, userID string, closingAmount int64, authTokenID string) (*models.TerminalSession, error) {
	authorizedBy, err := s.authGate.Consume(authTokenID, models.OpForceCloseTerminal)
	if err != nil {
		return nil, err
	}
	return s.close(ctx, terminalID, sessionID, userID, closingAmount, authorizedBy)
}

func (s *TerminalService) close(ctx context.Context, terminalID, sessionID, userID string, closingAmount int64, authorizedBy string) (*models.TerminalSession, error) {
	if closingAmount < 0 {
		return nil, fmt.Errorf("closing amount must not be negative: %w", common.ErrValidation)
	}
	forced := authorizedBy != ""

	var session *models.TerminalSession
	var replayed bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)

		locked, err := repo.TryLockTerminal(ctx, terminalID)
		if err != nil {
			return err
		}
		if !locked {
			return fmt.Errorf("terminal %s is busy: %w", terminalID, common.ErrConflict)
		}

		// An outbox replay may arrive after the close was already applied.
		// Answer it with the stored result rather than NOT_FOUND so the
		// client can mark the entry synced.
		if sessionID != "" {
			prior, err := repo.GetByID(ctx, sessionID)
			if err == nil && prior.Status == models.SessionClosed {
				session = prior
				replayed = true
				return nil
			}
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
		}

		open, err := repo.GetOpenByTerminal(ctx, terminalID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no open session on terminal %s: %w", terminalID, common.ErrNotFound)
			}
			return err
		}
		if sessionID != "" && open.ID != sessionID {
			return fmt.Errorf("session %s is not open on terminal %s: %w", sessionID, terminalID, common.ErrNotFound)
		}

		expected, err := expectedCashForShift(ctx, s.repomanager, tx, open)
		if err != nil {
			return err
		}
		difference := closingAmount - expected

		if err := repo.Close(ctx, open.ID, closingAmount, difference, forced); err != nil {
			return err
		}

		session, err = repo.GetByID(ctx, open.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if replayed {
		return session, nil
	}

	action := models.AuditCloseTerminal
	actor := userID
	if forced {
		action = models.AuditForceClose
		actor = authorizedBy
	}
	s.audit.append(ctx, "terminal_session", session.ID, action, actor, session)
	s.logger.Info(ctx, "terminal closed", "terminal_id", terminalID, "session_id", session.ID, "forced", forced)
	return session, nil
}

// expectedCashForShift computes the cash the drawer should contain:
// opening amount + cash sales + cash-ins - cash-outs. Only drawer-affecting
// movements (IsCash) participate.
func expectedCashForShift(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, session *models.TerminalSession) (int64, error) {
	movs, err := m.Movements(tx).ListByShift(ctx, session.ID)
	if err != nil {
		return 0, err
	}
	totals, err := m.Sales(tx).TotalsForShift(ctx, session.ID)
	if err != nil {
		return 0, err
	}

	cashIn, cashOut := sumCashMovements(movs)
	return session.OpeningAmount + totals.Cash + cashIn - cashOut, nil
}

func sumCashMovements(movs []*models.CashMovement) (cashIn, cashOut int64) {
	for _, m := range movs {
		if !m.IsCash {
			continue
		}
		switch m.Type {
		case models.MovementIn:
			cashIn += m.Amount
		case models.MovementOut:
			cashOut += m.Amount
		}
	}
	return cashIn, cashOut
}
