package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

const maxShutdownTimeout = 5 * time.Minute

// PProfConfig exposes net/http/pprof on a separate listener, normally loopback only.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	if !c.Enabled {
		return "\n--- PProf ---\n  pprof.enabled: false\n"
	}
	return fmt.Sprintf("\n--- PProf ---\n  pprof.enabled: true\n  pprof.addr: %s\n", c.Addr)
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("pprof.addr must be host:port: %w", err)
	}
	return nil
}

// ShutdownConfig bounds how long servers may drain in-flight requests.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Shutdown ---\n")
	fmt.Fprintf(&b, "  shutdown.timeout: %s\n", c.Timeout)
	return b.String()
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 || c.Timeout > maxShutdownTimeout {
		return fmt.Errorf("shutdown.timeout must be in (0, %s], got %s", maxShutdownTimeout, c.Timeout)
	}
	return nil
}
