package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tillpoint/internal/dbx"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/audit"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/movements"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/sales"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to an arbitrary
// DBTX, so services can use the same repositories inside and outside of
// transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Movements(db dbx.DBTX) movements.Repository
	Sales(db dbx.DBTX) sales.Repository
	Audit(db dbx.DBTX) audit.Repository
}
