package credentials

import (
	"fmt"
	"strings"
)

// ConnectionConfig identifies a broker and the account used on it.
// It is immutable for the lifetime of one session.
type ConnectionConfig struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate reports ErrConfigInvalid naming every empty field.
func (c ConnectionConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "host")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfigInvalid, strings.Join(missing, ", "))
	}
	return nil
}

// Normalize trims surrounding whitespace from host and username.
// Passwords are kept byte for byte.
func (c ConnectionConfig) Normalize() ConnectionConfig {
	c.Host = strings.TrimSpace(c.Host)
	c.Username = strings.TrimSpace(c.Username)
	return c
}

// String omits the password so configs can be logged safely.
func (c ConnectionConfig) String() string {
	return fmt.Sprintf("%s@%s", c.Username, c.Host)
}
