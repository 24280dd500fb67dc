// Package cli implements the interactive terminal client: a command loop
// over the shift services, with a background sync engine draining the
// outbox whenever the backend is reachable.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/client/client"
	"github.com/dmitrijs2005/tillpoint/internal/client/config"
	"github.com/dmitrijs2005/tillpoint/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/tillpoint/internal/client/services"
	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/retryx"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	backend  client.Backend
	terminal *services.TerminalService
	sync     *services.SyncService
	db       *sql.DB
	reader   *bufio.Reader
	userName string
	Mode     Mode
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := sql.Open("sqlite", c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewSQLiteRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	backend := client.NewRestClient(c.ServerEndpointAddr, c.RequestTimeout)

	ob := rm.Outbox(db)
	local := rm.LocalState(db)

	ts := services.NewTerminalService(backend, ob, local, logger)

	policy := retryx.Policy{
		MaxAttempts:    c.SyncMaxAttempts,
		Backoff:        c.SyncBackoff,
		AttemptTimeout: c.SyncAttemptTimeout,
	}
	ss := services.NewSyncService(backend, ob, local, policy, c.OnlineCheckInterval, logger)

	return &App{
		config:   c,
		backend:  backend,
		terminal: ts,
		sync:     ss,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// StartOnlineStatusWatcher keeps the prompt's online/offline indicator
// current by probing the backend on a fixed interval.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.backend.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.backend.Close()

	go a.sync.Run(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}
