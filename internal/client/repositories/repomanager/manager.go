// Package repomanager vends the client's local repository implementations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/localstate"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/tillpoint/internal/dbx"
)

// RepositoryManager binds repository constructors to a concrete local store
// and exposes a schema migration hook.
type RepositoryManager interface {
	Outbox(db dbx.DBTX) outbox.Repository
	LocalState(db dbx.DBTX) localstate.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
