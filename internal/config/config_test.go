package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("OTP_REQUIRED", "")
	t.Setenv("LEDGER_REQUIRE_APPROVED_LINK", "")

	c := FromEnv()
	assert.Equal(t, "dev", c.Env)
	assert.True(t, c.OTPRequired)
	assert.False(t, c.RequireApprovedLink)
	assert.Equal(t, time.Hour, c.AccessTTL)
	assert.Equal(t, 4, c.WorkerCount)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_STORE", "memory")
	t.Setenv("OTP_REQUIRED", "false")
	t.Setenv("LEDGER_REQUIRE_APPROVED_LINK", "true")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("RATE_RPS", "not-a-number")

	c := FromEnv()
	assert.Equal(t, "prod", c.Env)
	assert.Equal(t, "memory", c.Store)
	assert.False(t, c.OTPRequired)
	assert.True(t, c.RequireApprovedLink)
	assert.Equal(t, 15*time.Minute, c.AccessTTL)
	assert.Equal(t, 100, c.RateRPS)
}
