// Package httpapi exposes the domain services over HTTP/JSON with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/logging"
	"github.com/dmitrijs2005/tillpoint/internal/server/config"
	"github.com/gin-gonic/gin"
)

// Server wraps the gin engine and the http.Server lifecycle.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	logger  logging.Logger
	handler *Handler
}

// NewServer wires the routes and returns a runnable server.
func NewServer(cfg *config.Config, handler *Handler, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{cfg: cfg, engine: engine, logger: logger, handler: handler}
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")

	v1.GET("/ping", s.handler.ping)
	v1.POST("/login", s.handler.login)

	protected := v1.Group("")
	protected.Use(authMiddleware([]byte(s.cfg.SecretKey)))

	protected.POST("/supervisor/authorize", s.handler.authorize)
	protected.POST("/terminals/:terminalId/open", s.handler.openTerminal)
	protected.POST("/terminals/:terminalId/close", s.handler.closeTerminal)
	protected.POST("/terminals/:terminalId/handover/calculate", s.handler.calculateHandover)
	protected.POST("/terminals/:terminalId/handover/execute", s.handler.executeHandover)
	protected.POST("/shifts/:shiftId/movements", s.handler.recordMovement)
	protected.GET("/shifts/:shiftId/movements", s.handler.listMovements)
	protected.POST("/sales", s.handler.recordSale)
	protected.POST("/users", s.handler.createUser)
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.EndpointAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
