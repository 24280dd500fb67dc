package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/flagx"
	"github.com/dmitrijs2005/tillpoint/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1s" and integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	DeviceID            string         `json:"device_id"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncMaxAttempts     int            `json:"sync_max_attempts"`
	SyncBackoff         timex.Duration `json:"sync_backoff"`
	SyncAttemptTimeout  timex.Duration `json:"sync_attempt_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags; when
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.DeviceID = c.DeviceID
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
	config.SyncMaxAttempts = c.SyncMaxAttempts
	config.SyncBackoff = time.Duration(c.SyncBackoff.Duration)
	config.SyncAttemptTimeout = time.Duration(c.SyncAttemptTimeout.Duration)
}
