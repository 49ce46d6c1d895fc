package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// DefaultAudioFormat is the capture container used when none is configured.
const DefaultAudioFormat = "wav"

// DefaultAuthSkew is subtracted from token lifetimes so an upload does not
// race a token that expires mid-flight.
const DefaultAuthSkew = 30 * time.Second

type Config struct {
	APIBaseURL   string `toml:"api_base_url" env:"API_BASE_URL"`
	StateDir     string `toml:"state_dir" env:"STATE_DIR"`
	StorePath    string `toml:"store_path" env:"STORE_PATH"`
	DownloadsDir string `toml:"downloads_dir" env:"DOWNLOADS_DIR"`
	Token        string `toml:"token" env:"TOKEN"`
	TokenFile    string `toml:"token_file" env:"TOKEN_FILE"`
	CaptureInput string `toml:"capture_input" env:"CAPTURE_INPUT"`
	AudioFormat  string `toml:"audio_format" env:"AUDIO_FORMAT"`
	AuthSkewSecs int    `toml:"auth_skew_seconds" env:"AUTH_SKEW_SECONDS"`
	LogLevel     string `toml:"log_level" env:"LOG_LEVEL"`
}

// Load reads config.toml from the XDG config dir if present, applies
// TRACKON_* environment overrides, and fills in defaults. The state
// directory is created so recordings always have somewhere to land.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:   "http://localhost:8000",
		StateDir:     defaultStateDir(),
		AudioFormat:  DefaultAudioFormat,
		AuthSkewSecs: int(DefaultAuthSkew / time.Second),
		LogLevel:     "info",
	}

	if configPath := configFilePath(); configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "TRACKON_"}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.StateDir = expandTilde(cfg.StateDir)
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(cfg.StateDir, "pending.db")
	} else {
		cfg.StorePath = expandTilde(cfg.StorePath)
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = filepath.Join(cfg.StateDir, "downloads")
	} else {
		cfg.DownloadsDir = expandTilde(cfg.DownloadsDir)
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(configDir(), "token")
	} else {
		cfg.TokenFile = expandTilde(cfg.TokenFile)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuthSkew returns the configured expiry skew as a duration.
func (c *Config) AuthSkew() time.Duration {
	return time.Duration(c.AuthSkewSecs) * time.Second
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trackon-recorder")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "trackon-recorder")
	}
	return ""
}

func configFilePath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "trackon-recorder")
	}
	return filepath.Join(".", "trackon-recorder")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
