package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/client/models"
	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:outboxtest?mode=memory&cache=shared")
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
);`)
	require.NoError(t, err)
	return db
}

func entry(id string, createdAt time.Time) *models.OutboxEntry {
	return &models.OutboxEntry{
		ID:        id,
		OpType:    models.OpRecordMovement,
		Payload:   []byte(`{"shift_id":"s1"}`),
		CreatedAt: createdAt,
		Status:    models.OutboxPending,
	}
}

func TestEnqueueAndListPendingFIFO(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Enqueue(ctx, entry("b", base.Add(time.Second))))
	require.NoError(t, repo.Enqueue(ctx, entry("a", base)))
	require.NoError(t, repo.Enqueue(ctx, entry("c", base.Add(2*time.Second))))

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	// Oldest first: replay preserves the order operations happened in.
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "b", pending[1].ID)
	assert.Equal(t, "c", pending[2].ID)
	assert.Equal(t, models.OpRecordMovement, pending[0].OpType)
	assert.JSONEq(t, `{"shift_id":"s1"}`, string(pending[0].Payload))
}

func TestStatusTransitions(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, entry("e1", time.Now())))

	require.NoError(t, repo.IncrementRetry(ctx, "e1", "connection refused"))
	require.NoError(t, repo.IncrementRetry(ctx, "e1", "connection refused"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 2, all[0].RetryCount)
	assert.Equal(t, "connection refused", all[0].LastError)

	require.NoError(t, repo.MarkSynced(ctx, "e1"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxSynced, all[0].Status)
	assert.Empty(t, all[0].LastError)

	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMarkFailed(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, entry("e1", time.Now())))
	require.NoError(t, repo.MarkFailed(ctx, "e1", "shift already closed"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OutboxFailed, all[0].Status)
	assert.Equal(t, "shift already closed", all[0].LastError)
}

func TestUpdateMissingEntry(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.MarkSynced(ctx, "ghost"), common.ErrNotFound)
	assert.ErrorIs(t, repo.MarkFailed(ctx, "ghost", "x"), common.ErrNotFound)
	assert.ErrorIs(t, repo.IncrementRetry(ctx, "ghost", "x"), common.ErrNotFound)
}
