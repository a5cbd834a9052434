package config

import (
	"fmt"
)

const (
	// DefaultRedisAddr is the default server address for Redis output
	DefaultRedisAddr = "localhost:6379"
	// DefaultRedisKey is the default list key for Redis output
	DefaultRedisKey = "logsim:records"
)

// RedisOutputConfig contains configuration for Redis output
type RedisOutputConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string `yaml:"addr,omitempty" mapstructure:"addr,omitempty"`
	// Key is the list key records are pushed to
	Key string `yaml:"key,omitempty" mapstructure:"key,omitempty"`
	// Workers is the number of pusher goroutines for Redis output
	Workers int `yaml:"workers,omitempty" mapstructure:"workers,omitempty"`
}

// Validate validates the Redis output configuration
func (c *RedisOutputConfig) Validate() error {
	// Addr and key are optional; empty means use defaults.
	if c.Addr != "" {
		host, port, err := SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("Redis output address validation failed: %w", err)
		}
		if err := ValidateHost(host); err != nil {
			return fmt.Errorf("Redis output host validation failed: %w", err)
		}
		if err := ValidatePort(port); err != nil {
			return fmt.Errorf("Redis output port validation failed: %w", err)
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("Redis output workers cannot be negative, got %d", c.Workers)
	}

	return nil
}
