package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tillpoint/internal/client/migrations"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/localstate"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// for the device-local store.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Outbox(db dbx.DBTX) outbox.Repository {
	return outbox.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) LocalState(db dbx.DBTX) localstate.Repository {
	return localstate.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the local database.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("sqlite3")
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
