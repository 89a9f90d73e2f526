package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tutorhub?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVICE_ROLE_KEY", "service-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.UpcomingWindow)
	assert.Equal(t, 30, cfg.BackupRetentionDays)
	assert.Equal(t, "* * * * *", cfg.CronSpecUpcomingCheck)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("UPCOMING_WINDOW_MINUTES", "30")
	t.Setenv("FUNCTIONS_BASE_URL", "https://fn.example.com/functions/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.UpcomingWindow)
	assert.Equal(t, "https://fn.example.com/functions/v1", cfg.FunctionsBaseURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{name: "missing database", env: map[string]string{"DATABASE_URL": ""}, errMsg: "DATABASE_URL"},
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}, errMsg: "JWT_SECRET"},
		{name: "missing service key", env: map[string]string{"SERVICE_ROLE_KEY": ""}, errMsg: "SERVICE_ROLE_KEY"},
		{name: "bad retention", env: map[string]string{"BACKUP_RETENTION_DAYS": "zero"}, errMsg: "BACKUP_RETENTION_DAYS"},
		{name: "negative retention", env: map[string]string{"BACKUP_RETENTION_DAYS": "-1"}, errMsg: "BACKUP_RETENTION_DAYS"},
		{name: "bad cache ttl", env: map[string]string{"CACHE_TTL": "soon"}, errMsg: "CACHE_TTL"},
		{name: "sendgrid without sender", env: map[string]string{"SENDGRID_API_KEY": "SG.x"}, errMsg: "EMAIL_FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
