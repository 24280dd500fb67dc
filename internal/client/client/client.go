// Package client implements the terminal's connection to the backend API.
package client

import (
	"context"

	"github.com/dmitrijs2005/tillpoint/internal/api"
)

// Backend is the surface the terminal services use to talk to the server.
// Implementations translate transport and HTTP-level failures into the
// shared error taxonomy; in particular any connectivity problem surfaces as
// common.ErrUnavailable so callers can fall back to the outbox.
type Backend interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, username string, pin string) (*api.LoginResponse, error)
	Authorize(ctx context.Context, username string, pin string, operation string) (*api.AuthorizeResponse, error)

	OpenTerminal(ctx context.Context, terminalID string, req *api.OpenTerminalRequest) (*api.Session, error)
	CloseTerminal(ctx context.Context, terminalID string, req *api.CloseTerminalRequest) (*api.Session, error)

	RecordMovement(ctx context.Context, shiftID string, req *api.RecordMovementRequest) (*api.Movement, error)
	ListMovements(ctx context.Context, shiftID string) ([]api.Movement, error)
	RecordSale(ctx context.Context, req *api.RecordSaleRequest) (*api.Sale, error)

	CalculateHandover(ctx context.Context, terminalID string, req *api.CalculateHandoverRequest) (*api.HandoverSummary, error)
	ExecuteHandover(ctx context.Context, terminalID string, req *api.ExecuteHandoverRequest) (*api.HandoverSummary, error)

	// SetAccessToken attaches the cashier's bearer token to subsequent calls.
	SetAccessToken(token string)
	Close() error
}
