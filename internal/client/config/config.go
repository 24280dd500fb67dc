// Package config handles configuration for the terminal client,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Tillpoint terminal client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend API.
//   - DatabaseDSN: path to the local SQLite store.
//   - DeviceID: stable identifier of this terminal device.
//   - RequestTimeout: per-request timeout for backend calls.
//   - OnlineCheckInterval: how often the sync engine probes connectivity.
//   - SyncMaxAttempts: replay attempts per outbox entry before it is FAILED.
//   - SyncBackoff: delay between replay attempts.
//   - SyncAttemptTimeout: timeout for a single replay attempt.
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	DeviceID            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SyncMaxAttempts     int
	SyncBackoff         time.Duration
	SyncAttemptTimeout  time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
	c.DatabaseDSN = "tillpoint.db"
	c.DeviceID = "terminal-1"
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.SyncMaxAttempts = 3
	c.SyncBackoff = 2 * time.Second
	c.SyncAttemptTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
