package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SCHEDULER_INTERVAL", "")
	t.Setenv("APPROVER_ROLES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, []string{"system_admin"}, cfg.Auth.ApproverRoles)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_INTERVAL", "5m")
	t.Setenv("APPROVER_ROLES", "system_admin, ad_manager ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, []string{"system_admin", "ad_manager"}, cfg.Auth.ApproverRoles)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "production",
			Database:    DatabaseConfig{Password: "secret"},
			JWT:         JWTConfig{SecretKey: "real-secret"},
			Auth:        AuthConfig{ApproverRoles: []string{"system_admin"}},
			Scheduler:   SchedulerConfig{Interval: time.Minute, Timezone: "UTC"},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.JWT.SecretKey = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Scheduler.Interval = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Scheduler.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Auth.ApproverRoles = nil
	assert.Error(t, cfg.Validate())
}

func TestDSNAndRedisAddr(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Database: "ads", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=ads sslmode=disable", db.DSN())

	r := RedisConfig{Host: "cache", Port: "6380"}
	assert.Equal(t, "cache:6380", r.Addr())
}
