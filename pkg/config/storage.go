package config

import (
	"fmt"
	"strings"
)

// Supported record store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StorageConfig selects and configures the record store backend.
type StorageConfig struct {
	Driver   string         `koanf:"driver"`
	Dir      string         `koanf:"dir"`
	Path     string         `koanf:"path"`
	Postgres DatabaseConfig `koanf:"postgres"`
}

// String returns a string representation of the storage configuration.
func (c *StorageConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Storage ---\n")
	b.WriteString(fmt.Sprintf("  storage.driver: %s\n", c.Driver))
	switch c.Driver {
	case DriverFile:
		b.WriteString(fmt.Sprintf("  storage.dir: %s\n", c.Dir))
	case DriverSQLite:
		b.WriteString(fmt.Sprintf("  storage.path: %s\n", c.Path))
	case DriverPostgres:
		b.WriteString(c.Postgres.String())
	}
	return b.String()
}

func (c *StorageConfig) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverFile:
		if c.Dir == "" {
			return fmt.Errorf("storage.dir is required for the %s driver", DriverFile)
		}
		return nil
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("storage.path is required for the %s driver", DriverSQLite)
		}
		return nil
	case DriverPostgres:
		return c.Postgres.Validate()
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}
