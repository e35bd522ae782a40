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
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "quotes", cfg.App.Name)
	assert.Equal(t, "canvas", cfg.Render.Backend)
	assert.Equal(t, "A4", cfg.Render.PageSize)
	assert.Equal(t, 15.0, cfg.Render.MarginMM)
	assert.Equal(t, DefaultFetchTimeout, cfg.Render.FetchTimeout)
	assert.Equal(t, DefaultFetchConcurrency, cfg.Render.FetchConcurrency)
	assert.Equal(t, DefaultPreviewDebounce, cfg.Render.PreviewDebounce)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Assets.MaxUploadBytes)
}

func TestLoadProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "base.yaml", "render:\n  backend: canvas\n  fetch_timeout: 5s\n")
	write(t, dir, "prod.yaml", "app:\n  environment: prod\nrender:\n  backend: fpdf\n")

	cfg, err := LoadFrom(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.App.Environment)
	assert.Equal(t, "fpdf", cfg.Render.Backend)
	assert.Equal(t, 5*time.Second, cfg.Render.FetchTimeout)
}

func TestLoadEnvKeepsUnderscoredKeys(t *testing.T) {
	t.Setenv("APP_RENDER_FETCH_TIMEOUT", "3s")
	t.Setenv("APP_LOG_FILE_ENABLED", "true")
	t.Setenv("APP_SERVER_PORT", "9090")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Render.FetchTimeout)
	assert.True(t, cfg.Log.File.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("APP_RENDER_BACKEND", "wkhtml")
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.backend must be one of: canvas fpdf")
}

func TestValidateUploadPresetRequiredWithURL(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)
	cfg.Assets.UploadURL = "https://api.cloudinary.com/v1_1/demo/image/upload"

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assets.uploadpreset")
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
