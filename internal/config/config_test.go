package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DISPLAY_TZ", "TOP_COUNTRIES", "HTTP_TIMEOUT_SECONDS", "LOG_LEVEL", "LEADS_API_URL", "SINK_URL", "IMPORT_DIR"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "UTC", cfg.DisplayTZ)
	assert.Equal(t, 5, cfg.TopCountries)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.ImportDir)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DISPLAY_TZ", "Europe/Istanbul")
	t.Setenv("TOP_COUNTRIES", "3")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "2")
	t.Setenv("LEADS_API_URL", "http://crm.local/leads")
	t.Setenv("SINK_URL", "")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.TopCountries)
	assert.Equal(t, 2*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "Europe/Istanbul", cfg.Location().String())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{Port: "8080", HTTPTimeout: time.Second, DisplayTZ: "UTC", TopCountries: 0}
	assert.Error(t, cfg.Validate())

	cfg.TopCountries = 5
	cfg.DisplayTZ = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg.DisplayTZ = "UTC"
	cfg.LeadsURL = "not a url"
	assert.Error(t, cfg.Validate())
}

func TestImportDirMustExist(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IMPORT_DIR", dir)
	t.Setenv("PORT", "8080")
	t.Setenv("DISPLAY_TZ", "UTC")
	t.Setenv("TOP_COUNTRIES", "5")
	t.Setenv("LEADS_API_URL", "")
	t.Setenv("SINK_URL", "")

	cfg := FromEnv()
	assert.Equal(t, dir, cfg.ImportDir)
	require.NoError(t, cfg.Validate())

	cfg.ImportDir = filepath.Join(dir, "missing")
	assert.Error(t, cfg.Validate())
}
