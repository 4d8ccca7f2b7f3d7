package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/pulsecoach/internal/coach"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Coach     CoachConfig     `yaml:"coach"`
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

// TailscaleConfig enables serving over a tailnet instead of a plain listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// CoachConfig tunes the recommendation and analytics engine. Zero values fall
// back to the built-in defaults, so a config file only needs the fields it
// wants to change.
type CoachConfig struct {
	MaxHRWarning          int     `yaml:"max_hr_warning"`
	HardStopMargin        int     `yaml:"hard_stop_margin"`
	MaxSessionMinutes     int     `yaml:"max_session_minutes"`
	DefaultSessionMinutes int     `yaml:"default_session_minutes"`
	AnalyticsWindowDays   int     `yaml:"analytics_window_days"`
	ConsistencyThreshold  int     `yaml:"consistency_threshold"`
	MaxRecommendations    int     `yaml:"max_recommendations"`
	CalorieFactor         float64 `yaml:"calorie_factor"`
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

// Settings merges the YAML overrides onto the engine defaults.
func (c CoachConfig) Settings() coach.Config {
	cfg := coach.DefaultConfig()
	if c.MaxHRWarning > 0 {
		cfg.MaxHRWarning = c.MaxHRWarning
	}
	if c.HardStopMargin > 0 {
		cfg.HardStopMargin = c.HardStopMargin
	}
	if c.MaxSessionMinutes > 0 {
		cfg.MaxSessionMinutes = c.MaxSessionMinutes
	}
	if c.DefaultSessionMinutes > 0 {
		cfg.DefaultSessionMinutes = c.DefaultSessionMinutes
	}
	if c.AnalyticsWindowDays > 0 {
		cfg.AnalyticsWindowDays = c.AnalyticsWindowDays
	}
	if c.ConsistencyThreshold > 0 {
		cfg.ConsistencyThreshold = c.ConsistencyThreshold
	}
	if c.MaxRecommendations > 0 {
		cfg.MaxRecommendations = c.MaxRecommendations
	}
	if c.CalorieFactor > 0 {
		cfg.CalorieFactor = c.CalorieFactor
	}
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix PULSECOACH_ and underscore-separated paths:
//
//	PULSECOACH_SERVER_HOST, PULSECOACH_SERVER_PORT,
//	PULSECOACH_DB_HOST, PULSECOACH_DB_PORT, PULSECOACH_DB_NAME,
//	PULSECOACH_DB_USER, PULSECOACH_DB_PASSWORD, PULSECOACH_DB_SSLMODE,
//	PULSECOACH_AUTH_API_KEY
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
	if v := os.Getenv("PULSECOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PULSECOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PULSECOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PULSECOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PULSECOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PULSECOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PULSECOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PULSECOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("PULSECOACH_AUTH_API_KEY"); v != "" {
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
	return nil
}
