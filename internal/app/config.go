package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "housechat/core/config"
	coredatabase "housechat/core/database"
)

// OperatorsConfig declares the operator roster. The super operator is
// excluded from registration notices but may run every command.
type OperatorsConfig struct {
	SuperAdminID int64   `yaml:"super_admin_id" envconfig:"SUPER_ADMIN_ID"`
	AdminIDs     []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
}

// Config is the full configuration of the bot process.
type Config struct {
	Core      coreconfig.Config   `yaml:",inline"`
	Database  coredatabase.Config `yaml:"database"`
	Operators OperatorsConfig     `yaml:"operators"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads YAML configuration, applies environment overrides and
// validates the result.
func LoadConfig(path string) (*Config, error) {
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
	if cfg.Operators.SuperAdminID == 0 {
		return nil, fmt.Errorf("operators.super_admin_id is required")
	}
	for _, id := range cfg.Operators.AdminIDs {
		if id == cfg.Operators.SuperAdminID {
			return nil, fmt.Errorf("operators.admin_ids must not contain the super admin (%d)", id)
		}
	}
	return &cfg, nil
}
