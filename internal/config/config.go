package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"become/internal/storage"
)

const (
	EnvConfig    = "BECOME_CONFIG"
	EnvLogMode   = "BECOME_LOG_MODE"
	EnvHTTPAddr  = "BECOME_HTTP_ADDR"
	EnvRedisAddr = "BECOME_REDIS_ADDR"
	EnvTimezone  = "BECOME_TZ"
)

type Config struct {
	DBPath   string      `yaml:"db_path"`
	Timezone string      `yaml:"timezone"`
	LogMode  string      `yaml:"log_mode"`
	HTTPAddr string      `yaml:"http_addr"`
	Redis    RedisConfig `yaml:"redis"`
}

// RedisConfig configures the best-effort snapshot mirror. An empty Addr
// disables mirroring.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	Channel  string        `yaml:"channel"`
	TTL      time.Duration `yaml:"ttl"`
}

func Default() Config {
	return Config{
		Timezone: "Local",
		LogMode:  "quiet",
		HTTPAddr: "127.0.0.1:8080",
		Redis: RedisConfig{
			Key:     "become:snapshot",
			Channel: "become:updates",
			TTL:     24 * time.Hour,
		},
	}
}

// DefaultPath is ~/.config/become/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "become", "config.yaml"), nil
}

// Load reads the YAML file at path (or $BECOME_CONFIG, or DefaultPath when
// path is empty). A missing file yields defaults. Environment overrides are
// applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
			path = p
			explicit = true
		} else {
			p, err := DefaultPath()
			if err == nil {
				path = p
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.DBPath == "" {
		p, err := storage.ResolveDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = p
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(storage.EnvDBPath)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogMode)); v != "" {
		cfg.LogMode = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHTTPAddr)); v != "" {
		cfg.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimezone)); v != "" {
		cfg.Timezone = v
	}
}

// Location resolves the configured timezone used for streak day boundaries.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
