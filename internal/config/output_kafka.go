package config

import (
	"fmt"
)

const (
	// DefaultKafkaTopic is the default topic for Kafka output
	DefaultKafkaTopic = "logsim.records"
)

// KafkaOutputConfig contains configuration for Kafka output
type KafkaOutputConfig struct {
	// Brokers is the list of Kafka broker addresses (host:port)
	Brokers []string `yaml:"brokers,omitempty" mapstructure:"brokers,omitempty"`
	// Topic is the topic records are produced to
	Topic string `yaml:"topic,omitempty" mapstructure:"topic,omitempty"`
	// Workers is the number of producer goroutines for Kafka output
	Workers int `yaml:"workers,omitempty" mapstructure:"workers,omitempty"`
}

// Validate validates the Kafka output configuration
func (c *KafkaOutputConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("Kafka output requires at least one broker")
	}

	for _, broker := range c.Brokers {
		host, port, err := SplitHostPort(broker)
		if err != nil {
			return fmt.Errorf("Kafka output broker %q validation failed: %w", broker, err)
		}
		if err := ValidateHost(host); err != nil {
			return fmt.Errorf("Kafka output broker %q host validation failed: %w", broker, err)
		}
		if err := ValidatePort(port); err != nil {
			return fmt.Errorf("Kafka output broker %q port validation failed: %w", broker, err)
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("Kafka output workers cannot be negative, got %d", c.Workers)
	}

	return nil
}
