package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/tillpoint/internal/api"
	"github.com/dmitrijs2005/tillpoint/internal/client/client"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/localstate"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepos(t *testing.T) (outbox.Repository, localstate.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:clientsvctest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE outbox (
  id          TEXT PRIMARY KEY,
  op_type     TEXT NOT NULL,
  payload     TEXT NOT NULL,
  created_at  TIMESTAMP NOT NULL,
  status      TEXT NOT NULL DEFAULT 'PENDING',
  retry_count INTEGER NOT NULL DEFAULT 0,
  last_error  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE local_sessions (
  id             TEXT PRIMARY KEY,
  location_id    TEXT NOT NULL,
  terminal_id    TEXT NOT NULL,
  status         TEXT NOT NULL,
  opened_by      TEXT NOT NULL,
  opening_amount INTEGER NOT NULL,
  opened_at      TIMESTAMP NOT NULL,
  closing_amount INTEGER,
  confirmed      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE local_movements (
  id        TEXT PRIMARY KEY,
  shift_id  TEXT NOT NULL,
  type      TEXT NOT NULL,
  amount    INTEGER NOT NULL,
  reason    TEXT NOT NULL,
  is_cash   INTEGER NOT NULL,
  ts        TIMESTAMP NOT NULL,
  confirmed INTEGER NOT NULL DEFAULT 0
);`)
	require.NoError(t, err)

	return outbox.NewSQLiteRepository(db), localstate.NewSQLiteRepository(db)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeBackend scripts the backend's responses. Methods not overridden here
// panic via the embedded nil interface, which is fine: the tests only touch
// what they script.
type fakeBackend struct {
	client.Backend

	pingErr error

	openErr   error
	openCalls int

	closeErr   error
	closeCalls int

	movementErr   error
	movementCalls int

	saleErr   error
	saleCalls int
}

func (f *fakeBackend) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeBackend) OpenTerminal(ctx context.Context, terminalID string, req *api.OpenTerminalRequest) (*api.Session, error) {
	f.openCalls++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &api.Session{
		ID:            req.SessionID,
		LocationID:    req.LocationID,
		TerminalID:    terminalID,
		Status:        "OPEN",
		OpenedBy:      "server-user",
		OpeningAmount: req.OpeningAmount,
	}, nil
}

func (f *fakeBackend) CloseTerminal(ctx context.Context, terminalID string, req *api.CloseTerminalRequest) (*api.Session, error) {
	f.closeCalls++
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	closing := req.ClosingAmount
	id := req.SessionID
	if id == "" {
		id = "11111111-1111-1111-1111-111111111111"
	}
	return &api.Session{
		ID:            id,
		TerminalID:    terminalID,
		Status:        "CLOSED",
		ClosingAmount: &closing,
	}, nil
}

func (f *fakeBackend) RecordMovement(ctx context.Context, shiftID string, req *api.RecordMovementRequest) (*api.Movement, error) {
	f.movementCalls++
	if f.movementErr != nil {
		return nil, f.movementErr
	}
	return &api.Movement{
		ID:      req.MovementID,
		ShiftID: shiftID,
		Type:    req.Type,
		Amount:  req.Amount,
		Reason:  req.Reason,
		IsCash:  req.IsCash,
	}, nil
}

func (f *fakeBackend) RecordSale(ctx context.Context, req *api.RecordSaleRequest) (*api.Sale, error) {
	f.saleCalls++
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	return &api.Sale{ID: req.SaleID, ShiftID: req.ShiftID, Method: req.Method, Amount: req.Amount}, nil
}
