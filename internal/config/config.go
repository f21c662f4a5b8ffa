package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Tailscale   TailscaleConfig   `yaml:"tailscale"`
	Progression ProgressionConfig `yaml:"progression"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// ProgressionConfig exposes the engine thresholds deployments tune most.
// Zero values fall back to the engine defaults.
type ProgressionConfig struct {
	SessionsAtTopBeforeIncrease int     `yaml:"sessions_at_top_before_increase"`
	LoadIncrement               float64 `yaml:"load_increment"`
	DeloadPercentage            float64 `yaml:"deload_percentage"`
	FailuresBeforeDeload        int     `yaml:"failures_before_deload"`
	PlateStep                   float64 `yaml:"plate_step"`
	SmoothingAlpha              float64 `yaml:"smoothing_alpha"`
	ReadinessFloor              int     `yaml:"readiness_floor"`
}

// Engine merges the configured overrides over the engine defaults and
// validates the result.
func (p ProgressionConfig) Engine() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if p.SessionsAtTopBeforeIncrease > 0 {
		cfg.SessionsAtTopBeforeIncrease = p.SessionsAtTopBeforeIncrease
	}
	if p.LoadIncrement > 0 {
		cfg.LoadIncrement = p.LoadIncrement
	}
	if p.DeloadPercentage > 0 {
		cfg.DeloadPercentage = p.DeloadPercentage
	}
	if p.FailuresBeforeDeload > 0 {
		cfg.FailuresBeforeDeload = p.FailuresBeforeDeload
	}
	if p.PlateStep > 0 {
		cfg.PlateStep = p.PlateStep
	}
	if p.SmoothingAlpha > 0 {
		cfg.SmoothingAlpha = p.SmoothingAlpha
	}
	if p.ReadinessFloor > 0 {
		cfg.ReadinessFloor = p.ReadinessFloor
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("progression config: %w", err)
	}
	return cfg, nil
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix WSUB_ and underscore-separated paths:
//
//	WSUB_SERVER_HOST, WSUB_SERVER_PORT,
//	WSUB_DB_HOST, WSUB_DB_PORT, WSUB_DB_NAME,
//	WSUB_DB_USER, WSUB_DB_PASSWORD, WSUB_DB_SSLMODE,
//	WSUB_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WSUB_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WSUB_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WSUB_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WSUB_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WSUB_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WSUB_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WSUB_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WSUB_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WSUB_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if _, err := c.Progression.Engine(); err != nil {
		return err
	}
	return nil
}
