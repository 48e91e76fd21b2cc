// Package config loads taskboard configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables prefixed with TASKBOARD_ (TASKBOARD_HTTP_ADDR -> http.addr)
//  2. YAML file named by TASKBOARD_CONFIG, if set
//  3. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "TASKBOARD_"
	envConfigFile = "TASKBOARD_CONFIG"

	defaultJWTSecret = "your-secret-key-change-in-production"
	maxConfigSize    = 1024 * 1024
)

// Config is the full application configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Session  SessionConfig  `koanf:"session"`
	AI       AIConfig       `koanf:"ai"`
}

// HTTPConfig configures the fiber server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig selects and configures the GORM dialector.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	Debug  bool   `koanf:"debug"`
}

// AuthConfig configures password hashing and JWT issuance.
type AuthConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	JWTIssuer  string        `koanf:"jwt_issuer"`
	AccessTTL  time.Duration `koanf:"access_ttl"`
	RefreshTTL time.Duration `koanf:"refresh_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`
}

// SessionConfig configures cookie sessions. An empty RedisAddr keeps sessions in memory.
type SessionConfig struct {
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	Expiration    time.Duration `koanf:"expiration"`
	CookieSecure  bool          `koanf:"cookie_secure"`
}

// AIConfig configures the generation endpoint used for task suggestions.
type AIConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// Load reads the YAML file named by TASKBOARD_CONFIG (if any) and then the environment.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(envConfigFile))
}

// LoadFile loads configuration from path (optional) and overrides it with environment variables.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps TASKBOARD_SESSION_REDIS_ADDR to session.redis_addr.
// Only the first underscore after the prefix separates section from field.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":3000"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "taskboard.db"
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = defaultJWTSecret
	}
	if cfg.Auth.JWTIssuer == "" {
		cfg.Auth.JWTIssuer = "taskboard"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 15 * time.Minute
	}
	if cfg.Auth.RefreshTTL == 0 {
		cfg.Auth.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}

	if cfg.Session.Expiration == 0 {
		cfg.Session.Expiration = 24 * time.Hour
	}

	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30 * time.Second
	}
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 16 characters"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost %d out of range [4,31]", c.Auth.BcryptCost))
	}
	if c.AI.Timeout < 0 {
		errs = append(errs, errors.New("ai.timeout must not be negative"))
	}

	return errors.Join(errs...)
}
