package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"fb-dialect/internal/dialect"
)

const defaultDriver = "firebirdsql"

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
	// ServerVersion skips probing, for servers that cannot report it.
	ServerVersion string `mapstructure:"server_version"`
}

// Validate fills in the default driver and rejects drivers the dialect
// does not serve.
func (c *DBConfig) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("database %q has no dsn", c.Name)
	}
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	if !dialect.SupportsDriver(c.Driver) {
		return fmt.Errorf("database %q: driver %q is not a Firebird driver", c.Name, c.Driver)
	}
	return nil
}

// errNoActiveDatabase means no entry of databases is marked active, in
// which case database.dsn is used instead.
var errNoActiveDatabase = errors.New("no active database found in config (set active: true)")

// GetActiveDBConfig returns the one entry of databases marked active.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var active []string
	var cfg *DBConfig
	for i := range configs {
		if configs[i].Active {
			cfg = &configs[i]
			active = append(active, configs[i].Name)
		}
	}
	switch len(active) {
	case 0:
		return nil, errNoActiveDatabase
	case 1:
		return cfg, nil
	default:
		return nil, fmt.Errorf("multiple active databases found (%s), only one can be active", strings.Join(active, ", "))
	}
}

// resolveDBConfig prefers an explicit --dsn, then the active entry of
// databases, then database.dsn from the config file or environment.
func resolveDBConfig() (*DBConfig, error) {
	var cfg *DBConfig
	if dsn == "" {
		active, err := GetActiveDBConfig()
		if err != nil && !errors.Is(err, errNoActiveDatabase) {
			return nil, err
		}
		cfg = active
	}
	if cfg == nil {
		cfg = &DBConfig{
			Name:   "default",
			Driver: viper.GetString("database.driver"),
			DSN:    viper.GetString("database.dsn"),
			Active: true,
		}
		if cfg.DSN == "" {
			return nil, fmt.Errorf("database.dsn is required (via flag, config or FB_DIALECT_DATABASE_DSN)")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
