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

// TreasuryService appends manual cash movements to a shift's ledger and
// serves the ledger to the reconciliation calculator and audit views.
type TreasuryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authGate    *AuthGateService
	cfg         *config.Config
	logger      logging.Logger
	audit       *auditWriter

	now func() time.Time
}

// NewTreasuryService constructs a TreasuryService using repositories and
// server config.
func NewTreasuryService(db *sql.DB, m repomanager.RepositoryManager, gate *AuthGateService, cfg *config.Config, logger logging.Logger) *TreasuryService {
	return &TreasuryService{
		db:          db,
		repomanager: m,
		authGate:    gate,
		cfg:         cfg,
		logger:      logger,
		audit:       newAuditWriter(db, m, logger),
		now:         time.Now,
	}
}

// RecordParams are the arguments for recording a movement. MovementID is the
// client-generated idempotency key; when empty a fresh id is assigned.
// AuthTokenID carries an optional supervisor authorization, mandatory when
// the amount exceeds the configured threshold for the (type, reason) pair.
type RecordParams struct {
	MovementID  string
	ShiftID     string
	Type        models.MovementType
	Amount      int64
	Reason      models.MovementReason
	IsCash      bool
	UserID      string
	AuthTokenID string
}

// Record validates and appends a movement. Entries are immutable once
// created; corrections are new compensating entries. Recording against a
// closed shift is a domain-level rejection (ErrRejected) so an offline
// replay fails its outbox entry immediately instead of retrying.
func (s *TreasuryService) Record(ctx context.Context, p RecordParams) (*models.CashMovement, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", common.ErrValidation)
	}
	if p.Type != models.MovementIn && p.Type != models.MovementOut {
		return nil, fmt.Errorf("unknown movement type %q: %w", p.Type, common.ErrValidation)
	}
	if !models.ValidReason(p.Reason) {
		return nil, fmt.Errorf("unknown movement reason %q: %w", p.Reason, common.ErrValidation)
	}
	if p.MovementID == "" {
		p.MovementID = uuid.NewString()
	} else if _, err := uuid.Parse(p.MovementID); err != nil {
		return nil, fmt.Errorf("movement id must be a UUID: %w", common.ErrValidation)
	}

	var authorizedBy *string
	if requiresAuthorization(p.Type, p.Reason, p.Amount, s.cfg.Thresholds) {
		subject, err := s.authGate.Consume(p.AuthTokenID, models.OpRecordMovement)
		if err != nil {
			return nil, err
		}
		authorizedBy = &subject
	}

	var movement *models.CashMovement

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		shift, err := s.repomanager.Sessions(tx).GetByID(ctx, p.ShiftID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("shift %s does not exist: %w", p.ShiftID, common.ErrNotFound)
			}
			return err
		}
		if shift.Status != models.SessionOpen {
			return fmt.Errorf("shift %s is already closed: %w", p.ShiftID, common.ErrRejected)
		}

		repo := s.repomanager.Movements(tx)

		created := &models.CashMovement{
			ID:           p.MovementID,
			ShiftID:      p.ShiftID,
			Type:         p.Type,
			Amount:       p.Amount,
			Reason:       p.Reason,
			IsCash:       p.IsCash,
			CreatedBy:    p.UserID,
			AuthorizedBy: authorizedBy,
			Timestamp:    s.now(),
		}

		inserted, err := repo.Create(ctx, created)
		if err != nil {
			return err
		}
		if !inserted {
			// Replay of an already applied movement.
			created, err = repo.GetByID(ctx, p.MovementID)
			if err != nil {
				return err
			}
		}

		movement = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.append(ctx, "cash_movement", movement.ID, models.AuditRecordMovement, p.UserID, movement)
	s.logger.Info(ctx, "movement recorded",
		"shift_id", p.ShiftID, "movement_id", movement.ID, "type", p.Type, "amount", p.Amount)
	return movement, nil
}

// ListForShift returns the shift's ledger ordered by timestamp ascending.
func (s *TreasuryService) ListForShift(ctx context.Context, shiftID string) ([]*models.CashMovement, error) {
	if _, err := s.repomanager.Sessions(s.db).GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("shift %s does not exist: %w", shiftID, common.ErrNotFound)
		}
		return nil, err
	}
	return s.repomanager.Movements(s.db).ListByShift(ctx, shiftID)
}

// RecordSaleParams are the arguments for journaling a sale.
type RecordSaleParams struct {
	SaleID  string
	ShiftID string
	Method  models.PaymentMethod
	Amount  int64
	UserID  string
}

// RecordSale journals a completed sale against the shift. Sales feed the
// per-method totals the reconciliation calculator reads.
func (s *TreasuryService) RecordSale(ctx context.Context, p RecordSaleParams) (*models.Sale, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", common.ErrValidation)
	}
	if !models.ValidPaymentMethod(p.Method) {
		return nil, fmt.Errorf("unknown payment method %q: %w", p.Method, common.ErrValidation)
	}
	if p.SaleID == "" {
		p.SaleID = uuid.NewString()
	} else if _, err := uuid.Parse(p.SaleID); err != nil {
		return nil, fmt.Errorf("sale id must be a UUID: %w", common.ErrValidation)
	}

	var sale *models.Sale

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		shift, err := s.repomanager.Sessions(tx).GetByID(ctx, p.ShiftID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("shift %s does not exist: %w", p.ShiftID, common.ErrNotFound)
			}
			return err
		}
		if shift.Status != models.SessionOpen {
			return fmt.Errorf("shift %s is already closed: %w", p.ShiftID, common.ErrRejected)
		}

		created := &models.Sale{
			ID:        p.SaleID,
			ShiftID:   p.ShiftID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedBy: p.UserID,
			Timestamp: s.now(),
		}

		if _, err := s.repomanager.Sales(tx).Create(ctx, created); err != nil {
			return err
		}

		sale = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.append(ctx, "sale", sale.ID, models.AuditRecordSale, p.UserID, sale)
	return sale, nil
}

// requiresAuthorization implements the per-location threshold policy table:
// bank deposits always need a supervisor; cash transfers and withdrawals
// need one above their configured limits.
func requiresAuthorization(t models.MovementType, reason models.MovementReason, amount int64, th config.Thresholds) bool {
	switch reason {
	case models.ReasonBankDeposit:
		return true
	case models.ReasonCashTransfer:
		return amount > th.CashTransferLimit
	case models.ReasonCashWithdrawal:
		return t == models.MovementOut && amount > th.CashWithdrawalLimit
	}
	return false
}
