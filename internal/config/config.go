// Package config loads the bot configuration: the shared core settings
// plus the database and donor program sections.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/novatangle/donorbot/core/config"
	coredatabase "github.com/novatangle/donorbot/core/database"
)

// AdminConfig holds the admin promotion settings.
type AdminConfig struct {
	// PromoteCode is the secret passed as /admin <code> to gain admin rights.
	PromoteCode string `yaml:"promote_code" envconfig:"ADMIN_PROMOTE_CODE"`
}

// Config aggregates everything the donor bot needs at startup.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Admin    AdminConfig         `yaml:"admin"`
}

// CoreConfig exposes the embedded core configuration for the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// Load reads configuration from a YAML file, overlays environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" || cfg.Database.Name == "" {
		return nil, fmt.Errorf("database.host and database.name are required")
	}
	if cfg.Admin.PromoteCode == "" {
		return nil, fmt.Errorf("admin.promote_code is required")
	}
	return &cfg, nil
}
