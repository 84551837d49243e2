// Package config holds the storefront service configuration.
package config

import (
	"strings"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
)

// ServiceName prefixes environment variables (STOREFRONT_SERVER_PORT) and names telemetry.
const ServiceName = "storefront"

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Grpc       config.GrpcServerConfig `koanf:"grpc"`
	Storage    config.StorageConfig    `koanf:"storage"`
	Auth       config.AuthConfig       `koanf:"auth"`
	CORS       config.CORSConfig       `koanf:"cors"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Nats       config.NATSConfig       `koanf:"nats"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

// Defaults is the lowest configuration layer. It lets the service start with no config file,
// storing data as JSON files under ./data.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                                   3000,
		"server.maxHeaderBytes":                         1 << 20,
		"server.timeout.read":                           "5s",
		"server.timeout.write":                          "10s",
		"server.timeout.idle":                           "120s",
		"server.timeout.readHeader":                     "2s",
		"grpc.port":                                     "3001",
		"storage.driver":                                config.DriverFile,
		"storage.dir":                                   "data",
		"storage.path":                                  "data/storefront.db",
		"storage.postgres.timeout":                      "5s",
		"auth.enabled":                                  false,
		"auth.issuer":                                   ServiceName,
		"auth.ttl":                                      "1h",
		"auth.admin.username":                           "admin",
		"cors.allowedOrigins":                           []string{"http://localhost:5173"},
		"cors.maxAge":                                   "5m",
		"log.level":                                     "info",
		"pprof.enabled":                                 false,
		"pprof.addr":                                    "localhost:6060",
		"nats.timeout":                                  "5s",
		"nats.stream":                                   "SALES",
		"resilience.retry.maxattempts":                  3,
		"resilience.retry.initialbackoff":               "100ms",
		"resilience.circuitbreaker.consecutivefailures": 5,
		"resilience.circuitbreaker.errorratepercent":    50,
		"resilience.circuitbreaker.opentimeout":         "30s",
		"resilience.circuitbreaker.halfopenrequests":    1,
		"telemetry.traces.otlphttp.timeout":             "5s",
		"shutdown.timeout":                              "10s",
	}
}

// Load reads the configuration with Defaults as the base layer.
func Load() (*Config, error) {
	return configloader.LoadWithOptions[*Config](ServiceName, configloader.Options{Defaults: Defaults()})
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Grpc.String())
	b.WriteString(c.Storage.String())
	b.WriteString(c.Auth.String())
	b.WriteString(c.CORS.String())
	b.WriteString(c.Nats.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks every block. Auth settings are only checked when the gate is enabled.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Grpc,
		&c.Storage,
		&c.CORS,
		&c.Log,
		&c.PProf,
		&c.Nats,
		&c.Resilience,
		&c.Telemetry,
		&c.Shutdown,
	}
	if c.Auth.Enabled {
		validators = append(validators, &c.Auth)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
