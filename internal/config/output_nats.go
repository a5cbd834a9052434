package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultNATSURL is the default server URL for NATS output
	DefaultNATSURL = "nats://localhost:4222"
	// DefaultNATSSubject is the default subject for NATS output
	DefaultNATSSubject = "logsim.records"
)

// NATSOutputConfig contains configuration for NATS output
type NATSOutputConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url,omitempty" mapstructure:"url,omitempty"`
	// Subject is the subject records are published to
	Subject string `yaml:"subject,omitempty" mapstructure:"subject,omitempty"`
	// Workers is the number of publisher goroutines for NATS output
	Workers int `yaml:"workers,omitempty" mapstructure:"workers,omitempty"`
}

// Validate validates the NATS output configuration
func (c *NATSOutputConfig) Validate() error {
	// URL and subject are optional; empty means use defaults.
	if c.URL != "" && !strings.HasPrefix(c.URL, "nats://") && !strings.HasPrefix(c.URL, "tls://") {
		return fmt.Errorf("NATS output URL must start with nats:// or tls://, got %q", c.URL)
	}

	if strings.ContainsAny(c.Subject, " \t") {
		return fmt.Errorf("NATS output subject cannot contain whitespace, got %q", c.Subject)
	}

	if c.Workers < 0 {
		return fmt.Errorf("NATS output workers cannot be negative, got %d", c.Workers)
	}

	return nil
}
