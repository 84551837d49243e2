package config

import (
	"fmt"
	"strings"
	"time"
)

type CORSConfig struct {
	AllowedOrigins []string      `koanf:"allowedOrigins"`
	MaxAge         time.Duration `koanf:"maxAge"`
}

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- CORS ---\n")
	b.WriteString(fmt.Sprintf("  cors.allowedOrigins: %s\n", strings.Join(c.AllowedOrigins, ",")))
	b.WriteString(fmt.Sprintf("  cors.maxAge: %s\n", c.MaxAge))
	return b.String()
}

func (c *CORSConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if origin == "" {
			return fmt.Errorf("cors.allowedOrigins contains an empty origin")
		}
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("cors.maxAge must not be negative")
	}
	return nil
}
