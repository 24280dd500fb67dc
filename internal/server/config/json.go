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
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	LockoutMaxFailures          int            `json:"lockout_max_failures"`
	LockoutCooldown             timex.Duration `json:"lockout_cooldown"`
	AuthTokenTTL                timex.Duration `json:"auth_token_ttl"`
	DoubleSubmitWindow          timex.Duration `json:"double_submit_window"`
	BaseFloat                   int64          `json:"base_float"`
	CashWithdrawalLimit         int64          `json:"cash_withdrawal_limit"`
	CashTransferLimit           int64          `json:"cash_transfer_limit"`
	BootstrapAdminUser          string         `json:"bootstrap_admin_user"`
	BootstrapAdminPIN           string         `json:"bootstrap_admin_pin"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If it is not set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function panics.
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

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.BcryptCost = c.BcryptCost
	config.LockoutMaxFailures = c.LockoutMaxFailures
	config.LockoutCooldown = time.Duration(c.LockoutCooldown.Duration)
	config.AuthTokenTTL = time.Duration(c.AuthTokenTTL.Duration)
	config.DoubleSubmitWindow = time.Duration(c.DoubleSubmitWindow.Duration)
	config.BaseFloat = c.BaseFloat
	config.Thresholds.CashWithdrawalLimit = c.CashWithdrawalLimit
	config.Thresholds.CashTransferLimit = c.CashTransferLimit
	config.BootstrapAdminUser = c.BootstrapAdminUser
	config.BootstrapAdminPIN = c.BootstrapAdminPIN
}
