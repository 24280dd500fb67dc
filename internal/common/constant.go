// Package common contains shared constants and sentinel errors used across
// Tillpoint components.
package common

const (
	// AccessTokenHeaderName is the HTTP header that carries the cashier's
	// access token on requests from the terminal client.
	AccessTokenHeaderName = "Authorization"

	// IdempotencyKeyHeaderName carries the client-generated idempotency key
	// on mutating requests, so outbox replays are applied at most once.
	IdempotencyKeyHeaderName = "X-Idempotency-Key"
)
