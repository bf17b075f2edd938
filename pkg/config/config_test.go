package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockwise/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.True(t, cfg.Alerts.SweepEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Alerts.SweepInterval)
	assert.Equal(t, 4*time.Hour, cfg.Alerts.Cooldown)
	assert.Equal(t, 50, cfg.Alerts.BatchCap)
	assert.Equal(t, time.Second, cfg.Alerts.DispatchThrottle)
	assert.Equal(t, 5, cfg.Alerts.DefaultThreshold)
	assert.Equal(t, 7, cfg.Alerts.ForecastHorizonDays)
	assert.False(t, cfg.SMS.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Cache.ForecastTTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("ALERTS_COOLDOWN", "30m")
	t.Setenv("ALERTS_BATCH_CAP", "10")
	t.Setenv("ALERTS_SWEEP_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SMS_ENABLED", "true")
	t.Setenv("SMS_ENDPOINT", "https://sms.example.com/send")
	t.Setenv("SMS_RECIPIENT", "+573000000000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Alerts.Cooldown)
	assert.Equal(t, 10, cfg.Alerts.BatchCap)
	assert.False(t, cfg.Alerts.SweepEnabled)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.SMS.Enabled)
	assert.Equal(t, "+573000000000", cfg.SMS.Recipient)
}

func TestLoad_SMSIncompleto(t *testing.T) {
	t.Setenv("SMS_ENABLED", "true")
	t.Setenv("SMS_ENDPOINT", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/stock?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
