package config

import (
	"fmt"
)

// OutputType represents the type of output
type OutputType string

const (
	// OutputTypeNop represents NOP output
	OutputTypeNop OutputType = "nop"
	// OutputTypeStdout represents stdout output
	OutputTypeStdout OutputType = "stdout"
	// OutputTypeTCP represents TCP output
	OutputTypeTCP OutputType = "tcp"
	// OutputTypeUDP represents UDP output
	OutputTypeUDP OutputType = "udp"
	// OutputTypeOTLPGrpc represents OTLP gRPC output
	OutputTypeOTLPGrpc OutputType = "otlp-grpc"
	// OutputTypeKafka represents Kafka output
	OutputTypeKafka OutputType = "kafka"
	// OutputTypeNATS represents NATS output
	OutputTypeNATS OutputType = "nats"
	// OutputTypeRedis represents Redis output
	OutputTypeRedis OutputType = "redis"
)

// Output contains configuration for output destinations
type Output struct {
	// Type specifies the output type, defaulting to stdout
	Type OutputType `yaml:"type,omitempty" mapstructure:"type,omitempty"`
	// UDP contains UDP output configuration
	UDP UDPOutputConfig `yaml:"udp,omitempty" mapstructure:"udp,omitempty"`
	// TCP contains TCP output configuration
	TCP TCPOutputConfig `yaml:"tcp,omitempty" mapstructure:"tcp,omitempty"`
	// OTLPGrpc contains OTLP gRPC output configuration
	OTLPGrpc OTLPGrpcOutputConfig `yaml:"otlpGrpc,omitempty" mapstructure:"otlpGrpc,omitempty"`
	// Kafka contains Kafka output configuration
	Kafka KafkaOutputConfig `yaml:"kafka,omitempty" mapstructure:"kafka,omitempty"`
	// NATS contains NATS output configuration
	NATS NATSOutputConfig `yaml:"nats,omitempty" mapstructure:"nats,omitempty"`
	// Redis contains Redis output configuration
	Redis RedisOutputConfig `yaml:"redis,omitempty" mapstructure:"redis,omitempty"`
}

// Validate validates the output configuration. Only the selected type's
// block is validated.
func (o *Output) Validate() error {
	// Allow empty type - defaults will be applied by override system
	if o.Type == "" {
		return nil
	}

	switch o.Type {
	case OutputTypeNop, OutputTypeStdout:
		// No additional validation required
	case OutputTypeTCP:
		if err := o.TCP.Validate(); err != nil {
			return fmt.Errorf("TCP output validation failed: %w", err)
		}
	case OutputTypeUDP:
		if err := o.UDP.Validate(); err != nil {
			return fmt.Errorf("UDP output validation failed: %w", err)
		}
	case OutputTypeOTLPGrpc:
		if err := o.OTLPGrpc.Validate(); err != nil {
			return fmt.Errorf("OTLP gRPC output validation failed: %w", err)
		}
	case OutputTypeKafka:
		if err := o.Kafka.Validate(); err != nil {
			return fmt.Errorf("Kafka output validation failed: %w", err)
		}
	case OutputTypeNATS:
		if err := o.NATS.Validate(); err != nil {
			return fmt.Errorf("NATS output validation failed: %w", err)
		}
	case OutputTypeRedis:
		if err := o.Redis.Validate(); err != nil {
			return fmt.Errorf("Redis output validation failed: %w", err)
		}
	default:
		return fmt.Errorf("invalid output type: %s, must be one of: nop, stdout, tcp, udp, otlp-grpc, kafka, nats, redis", o.Type)
	}

	return nil
}
