package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "4008599", cfg.DefaultOrgID)
	assert.Equal(t, ModeHTML, cfg.FinnMode)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, "data/cars.json", cfg.CarsFile)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.False(t, cfg.MailConfigured())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"FINN_MODE=auto\nFINN_API_KEY=from-file\nCACHE_TTL_SECONDS=60\nSMTP_HOST=smtp.example.no\n",
	), 0o600))
	t.Setenv("FINN_API_KEY", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_BROWSER", "true")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, ModeAuto, cfg.FinnMode)
	assert.Equal(t, "from-env", cfg.FinnAPIKey, "environment wins over file")
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.FetchBrowser)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, "smtp.example.no", cfg.SMTPHost)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("FINN_MODE", "scrape")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FINN_MODE")
	assert.Contains(t, err.Error(), "FETCH_TIMEOUT_SECONDS")
}
