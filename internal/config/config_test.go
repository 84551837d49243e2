package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STOREFRONT_CONFIG_FILE", filepath.Join(dir, "config.yaml"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	// given
	isolate(t)

	// when
	cfg, err := Load()

	// then
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.HTTPServer.Port)
	assert.Equal(t, config.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.Nats.Enabled())
	assert.False(t, cfg.Telemetry.TracingEnabled())
}

func TestLoad_LayersOverrideDefaults(t *testing.T) {
	// given
	dir := isolate(t)
	yaml := []byte("server:\n  port: 8080\nstorage:\n  driver: sqlite\n  path: /var/lib/storefront.db\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("STOREFRONT_SERVER_PORT", "9090")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	// when
	cfg, err := Load()

	// then
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPServer.Port, "environment wins over the file")
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/storefront.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: true},
		{name: "auth enabled without secret", mutate: func(c *Config) { c.Auth.Enabled = true }, wantErr: true},
		{name: "auth disabled ignores secret", mutate: func(c *Config) { c.Auth.Secret = "short" }},
		{
			name: "auth enabled with secret",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.Secret = "0123456789abcdef0123456789abcdef"
				c.Auth.Admin.Password = "bootstrap"
			},
		},
		{name: "bad port", mutate: func(c *Config) { c.HTTPServer.Port = 70000 }, wantErr: true},
		{
			name: "pprof without port",
			mutate: func(c *Config) {
				c.PProf.Enabled = true
				c.PProf.Addr = "localhost"
			},
			wantErr: true,
		},
		{name: "shutdown too long", mutate: func(c *Config) { c.Shutdown.Timeout = time.Hour }, wantErr: true},
		{
			name: "nats without stream",
			mutate: func(c *Config) {
				c.Nats.Url = "nats://localhost:4222"
				c.Nats.Stream = ""
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			isolate(t)
			cfg, err := Load()
			require.NoError(t, err)
			tc.mutate(cfg)

			// when
			err = cfg.Validate()

			// then
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestString_HidesSecrets(t *testing.T) {
	// given
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Auth.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Storage.Driver = config.DriverPostgres
	cfg.Storage.Postgres.URL = "postgres://app:hunter2@db:5432/storefront"

	// when
	out := cfg.String()

	// then
	assert.NotContains(t, out, cfg.Auth.Secret)
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, "storage.driver: postgres")
}
