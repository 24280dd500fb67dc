package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 8*time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 5, cfg.LockoutMaxFailures)
	assert.Equal(t, 5*time.Minute, cfg.LockoutCooldown)
	assert.Equal(t, 2*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.DoubleSubmitWindow)
	assert.Equal(t, int64(50000), cfg.BaseFloat)
	assert.Equal(t, int64(100000), cfg.Thresholds.CashWithdrawalLimit)
	assert.Equal(t, int64(500000), cfg.Thresholds.CashTransferLimit)
	assert.Equal(t, "admin", cfg.BootstrapAdminUser)
	assert.Equal(t, "0000", cfg.BootstrapAdminPIN)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server",
		"-a", ":9090",
		"-d", "postgres://example/till",
		"-s", "flagsecret",
		"-t", "120",
		"-f", "60000",
		"-w", "200000",
		"-x", "900000",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "postgres://example/till", cfg.DatabaseDSN)
	assert.Equal(t, "flagsecret", cfg.SecretKey)
	assert.Equal(t, 120*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, int64(60000), cfg.BaseFloat)
	assert.Equal(t, int64(200000), cfg.Thresholds.CashWithdrawalLimit)
	assert.Equal(t, int64(900000), cfg.Thresholds.CashTransferLimit)
}

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	content := `{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://json/till",
		"secret_key": "jsonsecret",
		"access_token_validity_duration": "4h",
		"bcrypt_cost": 12,
		"lockout_max_failures": 3,
		"lockout_cooldown": "10m",
		"auth_token_ttl": "90s",
		"double_submit_window": "5s",
		"base_float": 75000,
		"cash_withdrawal_limit": 150000,
		"cash_transfer_limit": 600000,
		"bootstrap_admin_user": "root",
		"bootstrap_admin_pin": "9876"
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddr)
	assert.Equal(t, "postgres://json/till", cfg.DatabaseDSN)
	assert.Equal(t, "jsonsecret", cfg.SecretKey)
	assert.Equal(t, 4*time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 3, cfg.LockoutMaxFailures)
	assert.Equal(t, 10*time.Minute, cfg.LockoutCooldown)
	assert.Equal(t, 90*time.Second, cfg.AuthTokenTTL)
	assert.Equal(t, 5*time.Second, cfg.DoubleSubmitWindow)
	assert.Equal(t, int64(75000), cfg.BaseFloat)
	assert.Equal(t, int64(150000), cfg.Thresholds.CashWithdrawalLimit)
	assert.Equal(t, int64(600000), cfg.Thresholds.CashTransferLimit)
	assert.Equal(t, "root", cfg.BootstrapAdminUser)
	assert.Equal(t, "9876", cfg.BootstrapAdminPIN)
}

func TestParseJsonNoFile(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"server"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	// Without -c the defaults stay untouched.
	assert.Equal(t, ":8080", cfg.EndpointAddr)
}
