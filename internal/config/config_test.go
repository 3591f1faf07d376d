package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_TYPES", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("INTAKE_REQUIRE_SUBMISSION_DATE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.App.Addr())
	assert.Equal(t, DefaultServiceTypes, cfg.Intake.ServiceTypes)
	assert.True(t, cfg.Intake.RequireSubmissionDate)
	assert.Equal(t, "storage/submissions.xlsx", cfg.Workbook.Path)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVICE_TYPES", " Transcript , ,ID Replacement")
	t.Setenv("INTAKE_REQUIRE_SUBMISSION_DATE", "false")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Transcript", "ID Replacement"}, cfg.Intake.ServiceTypes)
	assert.False(t, cfg.Intake.RequireSubmissionDate)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsList_ReturnsCopy(t *testing.T) {
	t.Setenv("LIST_KEY", "")
	fallback := []string{"a"}
	got := getEnvAsList("LIST_KEY", fallback)
	got[0] = "b"
	assert.Equal(t, "a", fallback[0])
}
