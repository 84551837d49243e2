package config

import (
	"fmt"
	"strings"
	"time"
)

const minSecretLength = 32

// AuthConfig configures token issuing and the request gate.
type AuthConfig struct {
	Enabled bool          `koanf:"enabled"`
	Secret  string        `koanf:"secret"`
	Issuer  string        `koanf:"issuer"`
	TTL     time.Duration `koanf:"ttl"`
	Admin   struct {
		Username string `koanf:"username"`
		Password string `koanf:"password"`
	} `koanf:"admin"`
}

// String returns a string representation of the auth configuration. The secret is never printed.
func (c *AuthConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Auth ---\n")
	b.WriteString(fmt.Sprintf("  auth.enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  auth.issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  auth.ttl: %s\n", c.TTL))
	b.WriteString(fmt.Sprintf("  auth.admin.username: %s\n", c.Admin.Username))
	return b.String()
}

func (c *AuthConfig) Validate() error {
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth.secret must be at least %d bytes long", minSecretLength)
	}
	if c.Issuer == "" {
		return fmt.Errorf("auth.issuer is not configured")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("auth.ttl must be greater than 0")
	}
	if c.Admin.Username != "" && c.Admin.Password == "" {
		return fmt.Errorf("auth.admin.password is required when auth.admin.username is set")
	}
	return nil
}
