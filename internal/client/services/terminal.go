// Package services implements the terminal-side workflows: shift operations
// with an offline fallback through the outbox, and the background sync
// engine that replays queued operations.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/client/client"
	"github.com/dmitrijs2005/tillpoint/internal/client/models"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/localstate"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/google/uuid"
)

// TerminalService runs shift operations against the backend, falling back to
// the durable outbox when the backend is unreachable. Operations that need a
// supervisor authorization token never fall back: tokens are single-use and
// live only in the server's memory, so they cannot be replayed later.
type TerminalService struct {
	backend client.Backend
	outbox  outbox.Repository
	local   localstate.Repository
	logger  logging.Logger
	userID  string

	now func() time.Time
}

func NewTerminalService(backend client.Backend, ob outbox.Repository, local localstate.Repository, logger logging.Logger) *TerminalService {
	return &TerminalService{
		backend: backend,
		outbox:  ob,
		local:   local,
		logger:  logger,
		now:     time.Now,
	}
}

// SetUser records the logged-in cashier so tentative local rows carry an
// actor even before the backend confirms them.
func (s *TerminalService) SetUser(userID string) {
	s.userID = userID
}

// OpenResult reports the outcome of an operation that may have been queued
// instead of applied directly.
type OpenResult struct {
	Session *models.LocalSession
	Queued  bool
}

// Open opens a shift on the terminal. When the backend is unreachable the
// operation is written to the outbox and a tentative local session is
// returned; the sync engine confirms or rejects it later.
func (s *TerminalService) Open(ctx context.Context, terminalID, locationID string, openingAmount int64) (*OpenResult, error) {
	if terminalID == "" || locationID == "" {
		return nil, fmt.Errorf("%w: terminal and location are required", common.ErrValidation)
	}
	if openingAmount < 0 {
		return nil, fmt.Errorf("%w: opening amount must not be negative", common.ErrValidation)
	}

	req := &api.OpenTerminalRequest{
		SessionID:     uuid.NewString(),
		LocationID:    locationID,
		OpeningAmount: openingAmount,
	}

	session, err := s.backend.OpenTerminal(ctx, terminalID, req)
	if err == nil {
		local := sessionFromAPI(session, true)
		if err := s.local.SaveSession(ctx, local); err != nil {
			return nil, err
		}
		return &OpenResult{Session: local}, nil
	}
	if !errors.Is(err, common.ErrUnavailable) {
		return nil, err
	}

	local := &models.LocalSession{
		ID:            req.SessionID,
		LocationID:    locationID,
		TerminalID:    terminalID,
		Status:        "OPEN",
		OpenedBy:      s.userID,
		OpeningAmount: openingAmount,
		OpenedAt:      s.now(),
	}
	payload := models.OpenTerminalPayload{TerminalID: terminalID, Request: *req}
	if err := s.enqueue(ctx, req.SessionID, models.OpOpenTerminal, payload); err != nil {
		return nil, err
	}
	if err := s.local.SaveSession(ctx, local); err != nil {
		return nil, err
	}
	s.logger.Warn(ctx, "backend unreachable, shift open queued", "session_id", req.SessionID, "terminal_id", terminalID)
	return &OpenResult{Session: local, Queued: true}, nil
}

// Close closes the open shift with a counted closing amount. A forced close
// requires a live authorization token and therefore never queues.
func (s *TerminalService) Close(ctx context.Context, terminalID string, closingAmount int64, force bool, authTokenID string) (*OpenResult, error) {
	if closingAmount < 0 {
		return nil, fmt.Errorf("%w: closing amount must not be negative", common.ErrValidation)
	}

	req := &api.CloseTerminalRequest{ClosingAmount: closingAmount, Force: force, AuthTokenID: authTokenID}

	session, err := s.backend.CloseTerminal(ctx, terminalID, req)
	if err == nil {
		local := sessionFromAPI(session, true)
		if err := s.local.SaveSession(ctx, local); err != nil {
			return nil, err
		}
		return &OpenResult{Session: local}, nil
	}
	if !errors.Is(err, common.ErrUnavailable) || force || authTokenID != "" {
		return nil, err
	}

	open, err := s.local.GetOpenSession(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	open.Status = "CLOSED"
	open.ClosingAmount = &closingAmount
	open.Confirmed = false

	// The queued request names the session, so a replay that lands after the
	// server already applied the close is answered idempotently instead of
	// failing with NOT_FOUND.
	req.SessionID = open.ID
	payload := models.CloseTerminalPayload{TerminalID: terminalID, Request: *req}
	if err := s.enqueue(ctx, uuid.NewString(), models.OpCloseTerminal, payload); err != nil {
		return nil, err
	}
	if err := s.local.SaveSession(ctx, open); err != nil {
		return nil, err
	}
	s.logger.Warn(ctx, "backend unreachable, shift close queued", "session_id", open.ID, "terminal_id", terminalID)
	return &OpenResult{Session: open, Queued: true}, nil
}

// MovementResult reports a recorded movement and whether it was queued.
type MovementResult struct {
	Movement *models.LocalMovement
	Queued   bool
}

// RecordMovement appends a cash movement to the shift. Movements carrying an
// authorization token are online only.
func (s *TerminalService) RecordMovement(ctx context.Context, shiftID, movType, reason string, amount int64, isCash bool, authTokenID string) (*MovementResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}

	req := &api.RecordMovementRequest{
		MovementID:  uuid.NewString(),
		Type:        movType,
		Amount:      amount,
		Reason:      reason,
		IsCash:      isCash,
		AuthTokenID: authTokenID,
	}

	movement, err := s.backend.RecordMovement(ctx, shiftID, req)
	if err == nil {
		local := movementFromAPI(movement, true)
		if err := s.local.SaveMovement(ctx, local); err != nil {
			return nil, err
		}
		return &MovementResult{Movement: local}, nil
	}
	if !errors.Is(err, common.ErrUnavailable) || authTokenID != "" {
		return nil, err
	}

	local := &models.LocalMovement{
		ID:        req.MovementID,
		ShiftID:   shiftID,
		Type:      movType,
		Amount:    amount,
		Reason:    reason,
		IsCash:    isCash,
		Timestamp: s.now(),
	}
	payload := models.RecordMovementPayload{ShiftID: shiftID, Request: *req}
	if err := s.enqueue(ctx, req.MovementID, models.OpRecordMovement, payload); err != nil {
		return nil, err
	}
	if err := s.local.SaveMovement(ctx, local); err != nil {
		return nil, err
	}
	s.logger.Warn(ctx, "backend unreachable, movement queued", "movement_id", req.MovementID, "shift_id", shiftID)
	return &MovementResult{Movement: local, Queued: true}, nil
}

// RecordSale journals a completed sale, queuing it when offline.
func (s *TerminalService) RecordSale(ctx context.Context, shiftID, method string, amount int64) (queued bool, err error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: amount must be positive", common.ErrValidation)
	}

	req := &api.RecordSaleRequest{
		SaleID:  uuid.NewString(),
		ShiftID: shiftID,
		Method:  method,
		Amount:  amount,
	}

	if _, err := s.backend.RecordSale(ctx, req); err == nil {
		return false, nil
	} else if !errors.Is(err, common.ErrUnavailable) {
		return false, err
	}

	payload := models.RecordSalePayload{Request: *req}
	if err := s.enqueue(ctx, req.SaleID, models.OpRecordSale, payload); err != nil {
		return false, err
	}
	s.logger.Warn(ctx, "backend unreachable, sale queued", "sale_id", req.SaleID, "shift_id", shiftID)
	return true, nil
}

// CalculateHandover asks the backend for a reconciliation summary. This is a
// read over live server state and has no offline fallback.
func (s *TerminalService) CalculateHandover(ctx context.Context, terminalID string, declaredCash int64) (*api.HandoverSummary, error) {
	return s.backend.CalculateHandover(ctx, terminalID, &api.CalculateHandoverRequest{DeclaredCash: declaredCash})
}

// ExecuteHandover commits a previously calculated summary. Requires a live
// supervisor token, so it is online only.
func (s *TerminalService) ExecuteHandover(ctx context.Context, terminalID string, summary *api.HandoverSummary, authTokenID string) (*api.HandoverSummary, error) {
	req := &api.ExecuteHandoverRequest{Summary: *summary, AuthTokenID: authTokenID}
	result, err := s.backend.ExecuteHandover(ctx, terminalID, req)
	if err != nil {
		return nil, err
	}
	if session, serr := s.local.GetSession(ctx, summary.ShiftID); serr == nil {
		session.Status = "CLOSED"
		session.ClosingAmount = &result.DeclaredCash
		session.Confirmed = true
		if werr := s.local.SaveSession(ctx, session); werr != nil {
			s.logger.Warn(ctx, "failed to update local session after handover", "error", werr)
		}
	}
	return result, nil
}

// Status returns the local view: the open session, if any, and every outbox
// entry with its replay state.
func (s *TerminalService) Status(ctx context.Context, terminalID string) (*models.LocalSession, []*models.OutboxEntry, error) {
	session, err := s.local.GetOpenSession(ctx, terminalID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, nil, err
	}
	entries, err := s.outbox.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return session, entries, nil
}

func (s *TerminalService) enqueue(ctx context.Context, id string, op models.OpType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	entry := &models.OutboxEntry{
		ID:        id,
		OpType:    op,
		Payload:   data,
		CreatedAt: s.now(),
		Status:    models.OutboxPending,
	}
	return s.outbox.Enqueue(ctx, entry)
}

func sessionFromAPI(s *api.Session, confirmed bool) *models.LocalSession {
	return &models.LocalSession{
		ID:            s.ID,
		LocationID:    s.LocationID,
		TerminalID:    s.TerminalID,
		Status:        s.Status,
		OpenedBy:      s.OpenedBy,
		OpeningAmount: s.OpeningAmount,
		OpenedAt:      s.OpenedAt,
		ClosingAmount: s.ClosingAmount,
		Confirmed:     confirmed,
	}
}

func movementFromAPI(m *api.Movement, confirmed bool) *models.LocalMovement {
	return &models.LocalMovement{
		ID:        m.ID,
		ShiftID:   m.ShiftID,
		Type:      m.Type,
		Amount:    m.Amount,
		Reason:    m.Reason,
		IsCash:    m.IsCash,
		Timestamp: m.Timestamp,
		Confirmed: confirmed,
	}
}
