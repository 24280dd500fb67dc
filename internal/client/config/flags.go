package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL (e.g., "http://localhost:8080")
//	-d string   local SQLite database path
//	-i string   device identifier
//	-p int      online check interval, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so CLI subcommand arguments do not collide with
// configuration flags.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "backend base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "local database path")
	fs.StringVar(&config.DeviceID, "i", config.DeviceID, "device identifier")

	onlineCheckInterval := fs.Int("p", int(config.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
