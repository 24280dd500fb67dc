package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/tillpoint/internal/client/models"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/localstate"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deps struct {
	outbox outbox.Repository
	local  localstate.Repository
}

func newTerminalService(t *testing.T, backend *fakeBackend) (*TerminalService, *deps) {
	t.Helper()
	ob, local := setupRepos(t)
	svc := NewTerminalService(backend, ob, local, testLogger())
	svc.SetUser("cashier-1")
	return svc, &deps{outbox: ob, local: local}
}

func TestOpenOnline(t *testing.T) {
	backend := &fakeBackend{}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	result, err := svc.Open(ctx, "till-1", "loc-1", 50000)
	require.NoError(t, err)
	assert.False(t, result.Queued)
	assert.True(t, result.Session.Confirmed)

	// Confirmed straight away, nothing queued.
	session, err := d.local.GetOpenSession(ctx, "till-1")
	require.NoError(t, err)
	assert.True(t, session.Confirmed)

	entries, err := d.outbox.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenOffline(t *testing.T) {
	backend := &fakeBackend{openErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	result, err := svc.Open(ctx, "till-1", "loc-1", 50000)
	require.NoError(t, err)
	assert.True(t, result.Queued)
	assert.False(t, result.Session.Confirmed)

	// The tentative session is usable immediately.
	session, err := d.local.GetOpenSession(ctx, "till-1")
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, session.ID)
	assert.Equal(t, "cashier-1", session.OpenedBy)

	entries, err := d.outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpOpenTerminal, entries[0].OpType)
	assert.Equal(t, result.Session.ID, entries[0].ID)
}

func TestOpenDomainErrorDoesNotQueue(t *testing.T) {
	backend := &fakeBackend{openErr: common.ErrConflict}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	_, err := svc.Open(ctx, "till-1", "loc-1", 50000)
	assert.ErrorIs(t, err, common.ErrConflict)

	entries, err := d.outbox.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "only unreachability falls back to the outbox")
}

func TestOpenValidation(t *testing.T) {
	svc, _ := newTerminalService(t, &fakeBackend{})
	ctx := context.Background()

	_, err := svc.Open(ctx, "", "loc-1", 0)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Open(ctx, "till-1", "loc-1", -1)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCloseOffline(t *testing.T) {
	backend := &fakeBackend{openErr: common.ErrUnavailable, closeErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	opened, err := svc.Open(ctx, "till-1", "loc-1", 50000)
	require.NoError(t, err)

	result, err := svc.Close(ctx, "till-1", 48000, false, "")
	require.NoError(t, err)
	assert.True(t, result.Queued)

	session, err := d.local.GetSession(ctx, opened.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", session.Status)
	require.NotNil(t, session.ClosingAmount)
	assert.Equal(t, int64(48000), *session.ClosingAmount)
	assert.False(t, session.Confirmed)

	entries, err := d.outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2, "open and close both queued")

	// The queued request names the session so the server can answer a
	// replayed close idempotently.
	var p models.CloseTerminalPayload
	for _, e := range entries {
		if e.OpType == models.OpCloseTerminal {
			require.NoError(t, json.Unmarshal(e.Payload, &p))
		}
	}
	assert.Equal(t, opened.Session.ID, p.Request.SessionID)
}

func TestForceCloseNeverQueues(t *testing.T) {
	backend := &fakeBackend{closeErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	_, err := svc.Close(ctx, "till-1", 48000, true, "tok-1")
	assert.ErrorIs(t, err, common.ErrUnavailable)

	entries, err := d.outbox.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "token-gated operations are online only")
}

func TestRecordMovementOffline(t *testing.T) {
	backend := &fakeBackend{movementErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	result, err := svc.RecordMovement(ctx, "shift-1", "OUT", "CASH_WITHDRAWAL", 20000, true, "")
	require.NoError(t, err)
	assert.True(t, result.Queued)
	assert.False(t, result.Movement.Confirmed)

	entries, err := d.outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpRecordMovement, entries[0].OpType)
}

func TestRecordMovementWithTokenOfflineFails(t *testing.T) {
	backend := &fakeBackend{movementErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	_, err := svc.RecordMovement(ctx, "shift-1", "OUT", "BANK_DEPOSIT", 500000, true, "tok-1")
	assert.ErrorIs(t, err, common.ErrUnavailable)

	entries, err := d.outbox.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordSaleOffline(t *testing.T) {
	backend := &fakeBackend{saleErr: common.ErrUnavailable}
	svc, d := newTerminalService(t, backend)
	ctx := context.Background()

	queued, err := svc.RecordSale(ctx, "shift-1", "CASH", 2500)
	require.NoError(t, err)
	assert.True(t, queued)

	entries, err := d.outbox.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OpRecordSale, entries[0].OpType)
}
