package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "rental"

[rental]
advance_booking_days = 90

[kafka]
brokers = ["kafka:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "host=db port=5432 user=postgres password= dbname=rental sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 90, cfg.Rental.AdvanceBookingDays)
	assert.Equal(t, "rental.bookings", cfg.Kafka.Topic)
	assert.Equal(t, 30*time.Minute, cfg.Jobs.HoldTTLDuration())

	rules, err := cfg.Rental.Rules()
	require.NoError(t, err)
	assert.Equal(t, time.Friday, rules.PickupWeekday)
	assert.Equal(t, time.Sunday, rules.ReturnWeekday)
	assert.Equal(t, "0.2", rules.TaxRate.String())
	assert.Equal(t, "0.3", rules.DepositRate.String())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidRules(t *testing.T) {
	_, err := Load(writeConfig(t, `
[rental]
pickup_weekday = "friday"
return_weekday = "sunday"
default_rental_days = 3
`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, `
[rental]
pickup_weekday = "someday"
`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"friday": time.Friday,
		"Sun":    time.Sunday,
		"6":      time.Saturday,
		" MON ":  time.Monday,
	}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("7")
	assert.Error(t, err)
}

func TestHoldTTLDuration(t *testing.T) {
	assert.Equal(t, 45*time.Minute, JobsConfig{HoldTTL: "45m"}.HoldTTLDuration())
	assert.Equal(t, 30*time.Minute, JobsConfig{HoldTTL: "bogus"}.HoldTTLDuration())
}
