// Package server initializes and runs the backend application: it opens the
// database, runs migrations, wires the domain services and starts the HTTP
// endpoint, handling graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/dmitrijs2005/tillpoint/internal/server/httpapi"
	"github.com/dmitrijs2005/tillpoint/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tillpoint/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	db     *sql.DB
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	gate := services.NewAuthGateService(db, rm, c, logger)
	if err := gate.Bootstrap(context.Background()); err != nil {
		return nil, fmt.Errorf("bootstrap error: %w", err)
	}
	terminal := services.NewTerminalService(db, rm, gate, c, logger)
	treasury := services.NewTreasuryService(db, rm, gate, c, logger)
	printer := services.NewLogReceiptPrinter(logger)
	handover := services.NewHandoverService(db, rm, gate, c, logger, printer)

	handler := httpapi.NewHandler(gate, terminal, treasury, handover, logger)
	srv := httpapi.NewServer(c, handler, logger)

	return &App{config: c, logger: logger, server: srv, db: db}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
