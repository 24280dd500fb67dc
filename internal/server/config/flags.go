package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tillpoint/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-f int      base float kept for the next shift, base currency units
//	-w int      cash withdrawal threshold requiring authorization
//	-x int      cash transfer threshold requiring authorization
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-f", "-w", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.Int64Var(&config.BaseFloat, "f", config.BaseFloat, "base float to keep at handover")
	fs.Int64Var(&config.Thresholds.CashWithdrawalLimit, "w", config.Thresholds.CashWithdrawalLimit, "cash withdrawal authorization threshold")
	fs.Int64Var(&config.Thresholds.CashTransferLimit, "x", config.Thresholds.CashTransferLimit, "cash transfer authorization threshold")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
}
