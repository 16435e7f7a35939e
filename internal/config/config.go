// Package config loads server configuration from an optional YAML file with
// environment variable overrides. Env always wins, so deployments can ship a
// base file and override per instance.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// CORSOrigins lists allowed browser origins; empty allows none.
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	// URL is optional; empty falls back to the in-process session cache.
	URL string `yaml:"url"`
}

type AuthConfig struct {
	// JWTSecret verifies tokens issued by the hosted auth provider.
	JWTSecret string `yaml:"jwt_secret"`
	// AdminEmails are granted the admin dashboard.
	AdminEmails []string `yaml:"admin_emails"`
}

type AnalyticsConfig struct {
	// AggregateHourUTC is the hour of day the daily KPI job runs.
	AggregateHourUTC int `yaml:"aggregate_hour_utc"`
}

// Load reads path if it exists, then applies env overrides. A missing file
// is fine; env-only deployments pass an empty path.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{Port: "8080"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("database url is required (DATABASE_URL or config file)")
	}
	return cfg, nil
}

// IsAdmin reports whether the email is on the admin list.
func (c Config) IsAdmin(email string) bool {
	for _, admin := range c.Auth.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
