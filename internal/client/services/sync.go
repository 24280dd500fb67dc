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
	"github.com/dmitrijs2005/tillpoint/internal/retryx"
)

// SyncService drains the outbox when connectivity returns. Entries are
// replayed one at a time in creation order; each replay is idempotent on the
// server side because the entry id is the entity's primary key, so an entry
// interrupted between apply and acknowledgment is safe to replay again.
type SyncService struct {
	backend client.Backend
	outbox  outbox.Repository
	local   localstate.Repository
	policy  retryx.Policy
	logger  logging.Logger

	interval time.Duration
}

func NewSyncService(backend client.Backend, ob outbox.Repository, local localstate.Repository, policy retryx.Policy, interval time.Duration, logger logging.Logger) *SyncService {
	return &SyncService{
		backend:  backend,
		outbox:   ob,
		local:    local,
		policy:   policy,
		logger:   logger,
		interval: interval,
	}
}

// Run probes connectivity on a fixed interval and drains the outbox whenever
// the backend answers. It returns when ctx is cancelled.
func (s *SyncService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.backend.Ping(ctx); err != nil {
				continue
			}
			if err := s.Drain(ctx); err != nil {
				s.logger.Warn(ctx, "outbox drain interrupted", "error", err)
			}
		}
	}
}

// Drain replays pending entries oldest first.
//
// A replay that keeps failing transiently marks the entry FAILED and stops
// the drain, since connectivity is evidently gone again. A domain-level
// rejection (the backend understood the operation and refused it) also marks
// the entry FAILED but the drain continues; later entries get their own
// verdict from the server.
func (s *SyncService) Drain(ctx context.Context) error {
	entries, err := s.outbox.ListPending(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		s.logger.Debug(ctx, "replaying outbox entry", "id", entry.ID, "op", string(entry.OpType))
		err := s.replay(ctx, entry)
		if err == nil {
			if err := s.outbox.MarkSynced(ctx, entry.ID); err != nil {
				return err
			}
			s.logger.Info(ctx, "outbox entry synced", "id", entry.ID, "op", string(entry.OpType))
			continue
		}

		if merr := s.outbox.MarkFailed(ctx, entry.ID, err.Error()); merr != nil {
			return merr
		}
		s.logger.Warn(ctx, "outbox entry failed", "id", entry.ID, "op", string(entry.OpType), "error", err)

		if errors.Is(err, common.ErrUnavailable) {
			return err
		}
	}
	return nil
}

// replay applies one entry under the retry policy. Transient errors are
// retried; anything else is a definitive server verdict and stops at once.
func (s *SyncService) replay(ctx context.Context, entry *models.OutboxEntry) error {
	policy := s.policy
	policy.OnRetry = func(attempt int, err error) {
		if rerr := s.outbox.IncrementRetry(ctx, entry.ID, err.Error()); rerr != nil {
			s.logger.Warn(ctx, "failed to record retry", "id", entry.ID, "error", rerr)
		}
	}

	return policy.Do(ctx, func(ctx context.Context) error {
		err := s.apply(ctx, entry)
		if err == nil {
			return nil
		}
		if errors.Is(err, common.ErrUnavailable) {
			return err
		}
		return retryx.Permanent(err)
	})
}

// apply routes the stored payload to its endpoint and reconciles the local
// mirror with the server's response.
func (s *SyncService) apply(ctx context.Context, entry *models.OutboxEntry) error {
	switch entry.OpType {
	case models.OpOpenTerminal:
		var p models.OpenTerminalPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		session, err := s.backend.OpenTerminal(ctx, p.TerminalID, &p.Request)
		if err != nil {
			return err
		}
		return s.confirmSession(ctx, session)

	case models.OpCloseTerminal:
		var p models.CloseTerminalPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		session, err := s.backend.CloseTerminal(ctx, p.TerminalID, &p.Request)
		if err != nil {
			return err
		}
		return s.local.SaveSession(ctx, sessionFromAPI(session, true))

	case models.OpRecordMovement:
		var p models.RecordMovementPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		movement, err := s.backend.RecordMovement(ctx, p.ShiftID, &p.Request)
		if err != nil {
			return err
		}
		if err := s.local.ConfirmMovement(ctx, movement.ID); err == nil {
			return nil
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return s.local.SaveMovement(ctx, movementFromAPI(movement, true))

	case models.OpRecordSale:
		var p models.RecordSalePayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("%w: %w", common.ErrInternal, err)
		}
		_, err := s.backend.RecordSale(ctx, &p.Request)
		return err
	}
	return fmt.Errorf("%w: unknown outbox op %q", common.ErrInternal, entry.OpType)
}

// confirmSession flips the tentative local row to confirmed, falling back to
// a full save when no local row survived, e.g. after the local store was
// reset while entries were still queued.
func (s *SyncService) confirmSession(ctx context.Context, session *api.Session) error {
	if err := s.local.ConfirmSession(ctx, session.ID); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return s.local.SaveSession(ctx, sessionFromAPI(session, true))
}
