// Package config loads the quotes configuration with koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultServerPort is the default HTTP port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize bounds JSON quote bodies (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultMaxUploadBytes bounds uploaded logo/photo files (10MB).
	DefaultMaxUploadBytes = 10 << 20

	// DefaultFetchTimeout bounds a single remote image fetch.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultFetchConcurrency bounds parallel gallery fetches.
	DefaultFetchConcurrency = 4

	// DefaultPreviewDebounce is the quiet period before a preview regenerates.
	DefaultPreviewDebounce = 500 * time.Millisecond
)

// Config is the root configuration structure.
type Config struct {
	App    AppConfig    `koanf:"app"    validate:"required"`
	Server ServerConfig `koanf:"server" validate:"required"`
	Log    LogConfig    `koanf:"log"    validate:"required"`
	Render RenderConfig `koanf:"render" validate:"required"`
	Assets AssetsConfig `koanf:"assets"`
	Prefs  PrefsConfig  `koanf:"prefs"  validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// RenderConfig selects the PDF backend, page geometry and asset fetching.
type RenderConfig struct {
	Backend          string        `koanf:"backend"           validate:"required,oneof=canvas fpdf"`
	Variant          string        `koanf:"variant"`
	VariantFile      string        `koanf:"variant_file"`
	PageSize         string        `koanf:"page_size"         validate:"required,oneof=A4 Letter"`
	MarginMM         float64       `koanf:"margin_mm"         validate:"min=5,max=40"`
	FetchTimeout     time.Duration `koanf:"fetch_timeout"     validate:"required,min=100ms"`
	FetchConcurrency int           `koanf:"fetch_concurrency" validate:"required,min=1,max=32"`
	PreviewDebounce  time.Duration `koanf:"preview_debounce"  validate:"min=0"`
	ThumbnailDPI     float64       `koanf:"thumbnail_dpi"     validate:"min=0,max=600"`
}

// AssetsConfig points at the image upload endpoint.
type AssetsConfig struct {
	UploadURL      string `koanf:"upload_url"       validate:"omitempty,url"`
	UploadPreset   string `koanf:"upload_preset"    validate:"required_with=UploadURL"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes" validate:"min=0"`
}

// PrefsConfig locates the local preference file.
type PrefsConfig struct {
	Path string `koanf:"path" validate:"required"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotes",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "60s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotes.log",
		"log.file.max_size":    100,
		"log.file.max_backups": 3,
		"log.file.max_age":     28,
		"log.file.compress":    true,

		"render.backend":           "canvas",
		"render.variant":           "",
		"render.variant_file":      "",
		"render.page_size":         "A4",
		"render.margin_mm":         15.0,
		"render.fetch_timeout":     DefaultFetchTimeout.String(),
		"render.fetch_concurrency": DefaultFetchConcurrency,
		"render.preview_debounce":  DefaultPreviewDebounce.String(),
		"render.thumbnail_dpi":     96.0,

		"assets.upload_url":       "",
		"assets.upload_preset":    "",
		"assets.max_upload_bytes": DefaultMaxUploadBytes,

		"prefs.path": defaultPrefsPath(),
	}
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "quotes-prefs.yaml"
	}
	return filepath.Join(dir, "quotes", "prefs.yaml")
}

// Load loads configuration with the following precedence (highest first):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	defs := defaults()
	if err := k.Load(confmap.Provider(defs, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, filepath.Join(dir, "base.yaml")); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml")); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	envKeys := envKeyMap(defs)
	err := k.Load(env.Provider("APP_", ".", func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := envKeys[name]; ok {
			return key
		}
		return strings.ReplaceAll(name, "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// envKeyMap maps flattened env names (render_fetch_timeout) to the dotted
// keys they override (render.fetch_timeout), so keys containing underscores
// survive the APP_ mapping.
func envKeyMap(defs map[string]any) map[string]string {
	out := make(map[string]string, len(defs))
	for key := range defs {
		out[strings.ReplaceAll(key, ".", "_")] = key
	}
	return out
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return k.Load(file.Provider(path), yaml.Parser())
}
