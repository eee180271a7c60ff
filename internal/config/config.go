package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName = "chatwrapped"

	// DefaultAPIURL is where a local development backend listens.
	DefaultAPIURL = "http://localhost:8000"

	// EnvAPIBase injects the service address at runtime, e.g. from a
	// launcher script or a port-forward helper.
	EnvAPIBase = "CHATWRAPPED_API_BASE"
	EnvDebug   = "CHATWRAPPED_DEBUG"

	defaultTheme          = "Gruvbox"
	defaultProbeTimeoutMs = 5000
)

type Config struct {
	APIURL          string `mapstructure:"api_url"`
	Theme           string `mapstructure:"theme"`
	ProbeTimeoutMs  int    `mapstructure:"probe_timeout_ms"`
	UploadTimeoutMs int    `mapstructure:"upload_timeout_ms"`
	Debug           bool   `mapstructure:"debug"`

	// InjectedAPIURL comes from EnvAPIBase and ranks below the config file.
	InjectedAPIURL string `mapstructure:"injected_api_url"`
}

func DefaultConfig() Config {
	return Config{
		Theme:          defaultTheme,
		ProbeTimeoutMs: defaultProbeTimeoutMs,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the JSON settings file at path. A missing file yields the
// defaults plus whatever the environment provides.
func LoadFrom(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	def := DefaultConfig()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("theme", def.Theme)
	v.SetDefault("probe_timeout_ms", def.ProbeTimeoutMs)
	v.SetDefault("upload_timeout_ms", def.UploadTimeoutMs)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("injected_api_url", "")
	_ = v.BindEnv("injected_api_url", EnvAPIBase)
	_ = v.BindEnv("debug", EnvDebug)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return def, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return normalize(cfg), nil
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = def.Theme
	}
	if cfg.ProbeTimeoutMs <= 0 {
		cfg.ProbeTimeoutMs = def.ProbeTimeoutMs
	}
	if cfg.UploadTimeoutMs < 0 {
		cfg.UploadTimeoutMs = 0
	}
	return cfg
}

func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// UploadTimeout is zero when transfers are unbounded.
func (c Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutMs) * time.Millisecond
}

// ResolveBaseURL picks the service address once at startup: the explicit
// override, then the config file, then the injected environment value, then
// the local development address.
func (c Config) ResolveBaseURL(override string) string {
	for _, candidate := range []string{override, c.APIURL, c.InjectedAPIURL} {
		if u := normalizeURL(candidate); u != "" {
			return u
		}
	}
	return DefaultAPIURL
}

func normalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "http://" + u
	}
	return u
}
