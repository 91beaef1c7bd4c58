package config

import (
	"fmt"
	"time"

	"github.com/LeJamon/goIAZO/internal/storage/relationaldb"
)

// Storage backends for the key-value store.
const (
	BackendPebble  = "pebble"
	BackendBbolt   = "bbolt"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// DatabaseConfig represents the [database] section
// Configures the key-value store holding every sale record and balance
type DatabaseConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
	Name    string `toml:"name" mapstructure:"name"`
}

// IndexConfig represents the [index] section
// Configures the optional relational sale index used for seller queries
type IndexConfig struct {
	// Driver is sqlite, postgres or empty to disable the index.
	Driver           string        `toml:"driver" mapstructure:"driver"`
	ConnectionString string        `toml:"connection_string" mapstructure:"connection_string"`
	Path             string        `toml:"path" mapstructure:"path"`
	Host             string        `toml:"host" mapstructure:"host"`
	Port             int           `toml:"port" mapstructure:"port"`
	Database         string        `toml:"database" mapstructure:"database"`
	Username         string        `toml:"username" mapstructure:"username"`
	Password         string        `toml:"password" mapstructure:"password"`
	SSLMode          string        `toml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns     int           `toml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns     int           `toml:"max_idle_conns" mapstructure:"max_idle_conns"`
	Timeout          time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// Validate performs validation on the database configuration
func (d *DatabaseConfig) Validate() error {
	switch d.Backend {
	case BackendPebble, BackendBbolt, BackendLevelDB:
		if d.Path == "" {
			return fmt.Errorf("database path is required for backend %s", d.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid database backend: %s (valid options: pebble, bbolt, leveldb, memory)", d.Backend)
	}
	if d.Name == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

// Enabled reports whether a relational index is configured.
func (i *IndexConfig) Enabled() bool {
	return i.Driver != ""
}

// Validate performs validation on the index configuration
func (i *IndexConfig) Validate() error {
	if !i.Enabled() {
		return nil
	}
	return i.Relational().Validate()
}

// Relational converts the section into a relationaldb configuration.
func (i *IndexConfig) Relational() *relationaldb.Config {
	var c *relationaldb.Config
	switch i.Driver {
	case relationaldb.DriverSQLite, "sqlite3":
		c = relationaldb.SQLiteConfig(i.Path)
	default:
		c = relationaldb.PostgresConfig()
		c.Driver = i.Driver
		if i.Host != "" {
			c.Host = i.Host
		}
		if i.Port != 0 {
			c.Port = i.Port
		}
		if i.Database != "" {
			c.Database = i.Database
		}
		if i.Username != "" {
			c.Username = i.Username
		}
		c.Password = i.Password
		if i.SSLMode != "" {
			c.SSLMode = i.SSLMode
		}
		if i.MaxOpenConns != 0 {
			c.MaxOpenConns = i.MaxOpenConns
		}
		if i.MaxIdleConns != 0 {
			c.MaxIdleConns = i.MaxIdleConns
		}
	}
	c.ConnectionString = i.ConnectionString
	if i.Timeout > 0 {
		c.DefaultTimeout = i.Timeout
	}
	return c
}
