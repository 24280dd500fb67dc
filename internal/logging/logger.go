// Package logging defines the structured logging facade used by both the
// backend and the terminal client. Call sites depend on the interface only,
// so the backing implementation can change without touching them.
package logging

import "context"

// Logger accepts a message followed by alternating key-value pairs:
//
//	log.Info(ctx, "shift opened", "terminal", id, "amount", amount)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for unusual but recoverable conditions, such as an outbox
	// entry failing to replay.
	Warn(ctx context.Context, msg string, args ...any)

	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given pairs on every record.
	With(args ...any) Logger
}
