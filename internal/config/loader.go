package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MEXXUS_CONFIG is set
//  3. env (prefix MEXXUS_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("MEXXUS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: MEXXUS_ADDR, MEXXUS_DASHBOARD_TTL, ...
	// Map env keys like MEXXUS_DB_PATH -> db_path to match koanf tags.
	envProvider := env.Provider("MEXXUS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "mexxus_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.DashboardTTL <= 0 || c.PublicTTL <= 0 || c.AdminTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("refresh_interval must be positive")
	}
	if c.DashboardPageSize <= 0 {
		return errors.New("dashboard_page_size must be positive")
	}
	return nil
}
