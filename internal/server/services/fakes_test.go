package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/dmitrijs2005/tillpoint/internal/server/models"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/audit"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/movements"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/sales"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/users"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupDB opens an in-memory database so WithTx has something real to begin
// and commit against. The fakes below ignore the transaction handle.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:svctest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

type fakeSessions struct {
	items      map[string]*models.TerminalSession
	lockDenied bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{items: make(map[string]*models.TerminalSession)}
}

func (f *fakeSessions) TryLockTerminal(ctx context.Context, terminalID string) (bool, error) {
	return !f.lockDenied, nil
}

func (f *fakeSessions) GetOpenByTerminal(ctx context.Context, terminalID string) (*models.TerminalSession, error) {
	for _, s := range f.items {
		if s.TerminalID == terminalID && s.Status == models.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSessions) GetByID(ctx context.Context, id string) (*models.TerminalSession, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Create(ctx context.Context, s *models.TerminalSession) (bool, error) {
	if _, ok := f.items[s.ID]; ok {
		return false, nil
	}
	cp := *s
	f.items[s.ID] = &cp
	return true, nil
}

func (f *fakeSessions) Close(ctx context.Context, id string, closingAmount, difference int64, forced bool) error {
	s, ok := f.items[id]
	if !ok || s.Status != models.SessionOpen {
		return common.ErrNotFound
	}
	now := time.Now()
	s.Status = models.SessionClosed
	s.ClosedAt = &now
	s.ClosingAmount = &closingAmount
	s.Difference = &difference
	s.ForcedClose = forced
	return nil
}

type fakeMovements struct {
	items []*models.CashMovement
}

func (f *fakeMovements) Create(ctx context.Context, m *models.CashMovement) (bool, error) {
	for _, e := range f.items {
		if e.ID == m.ID {
			return false, nil
		}
	}
	cp := *m
	f.items = append(f.items, &cp)
	return true, nil
}

func (f *fakeMovements) GetByID(ctx context.Context, id string) (*models.CashMovement, error) {
	for _, e := range f.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeMovements) ListByShift(ctx context.Context, shiftID string) ([]*models.CashMovement, error) {
	var out []*models.CashMovement
	for _, e := range f.items {
		if e.ShiftID == shiftID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeSales struct {
	items  []*models.Sale
	totals models.SalesTotals
}

func (f *fakeSales) Create(ctx context.Context, s *models.Sale) (bool, error) {
	for _, e := range f.items {
		if e.ID == s.ID {
			return false, nil
		}
	}
	cp := *s
	f.items = append(f.items, &cp)
	return true, nil
}

func (f *fakeSales) TotalsForShift(ctx context.Context, shiftID string) (models.SalesTotals, error) {
	return f.totals, nil
}

type fakeUsers struct {
	byName map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: make(map[string]*models.User)}
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	cp := *u
	if cp.ID == "" {
		cp.ID = "id-" + cp.UserName
	}
	f.byName[cp.UserName] = &cp
	return &cp, nil
}

func (f *fakeUsers) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	u, ok := f.byName[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeAudit struct {
	entries []*models.AuditEntry
}

func (f *fakeAudit) Append(ctx context.Context, e *models.AuditEntry) error {
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

// fakeRepoManager vends the fakes regardless of the DBTX it is handed.
type fakeRepoManager struct {
	users     *fakeUsers
	sessions  *fakeSessions
	movements *fakeMovements
	sales     *fakeSales
	audit     *fakeAudit
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     newFakeUsers(),
		sessions:  newFakeSessions(),
		movements: &fakeMovements{},
		sales:     &fakeSales{},
		audit:     &fakeAudit{},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository            { return m.sessions }
func (m *fakeRepoManager) Movements(db dbx.DBTX) movements.Repository          { return m.movements }
func (m *fakeRepoManager) Sales(db dbx.DBTX) sales.Repository                  { return m.sales }
func (m *fakeRepoManager) Audit(db dbx.DBTX) audit.Repository                  { return m.audit }

type fakePrinter struct {
	printed []*models.HandoverSummary
	err     error
}

func (p *fakePrinter) PrintHandoverReceipt(ctx context.Context, s *models.HandoverSummary) error {
	if p.err != nil {
		return p.err
	}
	p.printed = append(p.printed, s)
	return nil
}
