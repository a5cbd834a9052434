package config

import (
	"fmt"
)

const (
	// DefaultHealthHost is the default bind host for the health endpoint
	DefaultHealthHost = "0.0.0.0"
	// DefaultHealthPort is the default bind port for the health endpoint
	DefaultHealthPort = 8080
)

// Health contains configuration for the liveness HTTP endpoint
type Health struct {
	// Host is the bind host for the health endpoint
	Host string `yaml:"host,omitempty" mapstructure:"host,omitempty"`
	// Port is the bind port for the health endpoint
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
}

// Validate validates the health endpoint configuration
func (h *Health) Validate() error {
	// Allow empty host and zero port - defaults will be applied by override system
	if h.Host != "" {
		if err := ValidateHost(h.Host); err != nil {
			return fmt.Errorf("health host validation failed: %w", err)
		}
	}

	if h.Port != 0 {
		if err := ValidatePort(h.Port); err != nil {
			return fmt.Errorf("health port validation failed: %w", err)
		}
	}

	return nil
}
