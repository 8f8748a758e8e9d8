// Package config loads process configuration from the environment, with a small viper
// layer so the same keys can also come from an optional config file (grounded on the
// reinforcement-learning trainer's viper.New/SetConfigFile/ReadInConfig/Unmarshal idiom).
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kestrelgames/boardhouse/internal/ai"
)

// Config is the process-wide configuration read once at startup and passed to the store,
// orchestrator, and HTTP layer by injection (Design Notes: no ambient statics).
type Config struct {
	HTTPAddr string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// ResetDBOnStartup optionally wipes AI-bound rows and re-seeds the AI registry at boot.
	ResetDBOnStartup bool

	JWTSecret string
	JWTExpiry time.Duration

	// AIRegistry is the declarative list of additional named AI strategies layered on top
	// of the registry's built-in defaults (spec §4.4).
	AIRegistry []ai.Config
}

// Load reads configuration from BOARDHOUSE_-prefixed environment variables (and, if
// BOARDHOUSE_CONFIG_FILE is set, from that file too) with sensible defaults for local
// development. DB_HOST and RESET_DB_ON_STARTUP are also accepted without the prefix.
func Load() (*Config, error) {
	vp := viper.New()
	vp.SetEnvPrefix("BOARDHOUSE")
	vp.AutomaticEnv()
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = vp.BindEnv("db_host", "BOARDHOUSE_DB_HOST", "DB_HOST")
	_ = vp.BindEnv("reset_db_on_startup", "BOARDHOUSE_RESET_DB_ON_STARTUP", "RESET_DB_ON_STARTUP")

	vp.SetDefault("http_addr", ":8080")
	vp.SetDefault("db_host", "localhost")
	vp.SetDefault("db_port", 5432)
	vp.SetDefault("db_user", "boardhouse")
	vp.SetDefault("db_password", "boardhouse")
	vp.SetDefault("db_name", "boardhouse")
	vp.SetDefault("db_sslmode", "disable")
	vp.SetDefault("reset_db_on_startup", false)
	vp.SetDefault("jwt_secret", "")
	vp.SetDefault("jwt_expiry", "24h")
	vp.SetDefault("ai_registry_json", "")

	if path := vp.GetString("config_file"); path != "" {
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read config file %s: %w", path, err)
		}
	}

	expiry, err := time.ParseDuration(vp.GetString("jwt_expiry"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid jwt_expiry: %w", err)
	}

	cfg := &Config{
		HTTPAddr:         vp.GetString("http_addr"),
		DBHost:           vp.GetString("db_host"),
		DBPort:           vp.GetInt("db_port"),
		DBUser:           vp.GetString("db_user"),
		DBPassword:       vp.GetString("db_password"),
		DBName:           vp.GetString("db_name"),
		DBSSLMode:        vp.GetString("db_sslmode"),
		ResetDBOnStartup: vp.GetBool("reset_db_on_startup"),
		JWTSecret:        vp.GetString("jwt_secret"),
		JWTExpiry:        expiry,
	}

	if raw := vp.GetString("ai_registry_json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.AIRegistry); err != nil {
			return nil, fmt.Errorf("config: invalid ai_registry_json: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("config: http_addr must not be empty")
	}
	if c.DBHost == "" {
		return fmt.Errorf("config: db_host must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: jwt_secret is required")
	}
	return nil
}
