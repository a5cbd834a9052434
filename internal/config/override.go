package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Override is a configuration override
type Override struct {
	// Field is the config field to override
	Field string
	// Flag is the flag that will override the field
	Flag string
	// Env is the environment variable that will override the field
	Env string
	// Usage is the usage for the override
	Usage string
	// Default is the default value for the override
	Default any
}

// NewOverride creates a new override
func NewOverride(field, usage string, def any) *Override {
	return &Override{
		Field:   field,
		Flag:    createFlagName(field),
		Env:     createEnvName(field),
		Usage:   usage,
		Default: def,
	}
}

// Bind binds the override to the viper instance
func (o *Override) Bind(flags *pflag.FlagSet) error {
	flag := o.createFlag(flags)
	if err := viper.BindPFlag(o.Field, flag); err != nil {
		return err
	}
	if err := viper.BindEnv(o.Field, o.Env); err != nil {
		return err
	}
	return nil
}

// createFlag creates a flag for the override
func (o *Override) createFlag(flags *pflag.FlagSet) *pflag.Flag {
	if exitingFlag := flags.Lookup(o.Flag); exitingFlag != nil {
		return exitingFlag
	}

	switch v := o.Default.(type) {
	case string:
		_ = flags.String(o.Flag, v, o.Usage)
	case []string:
		_ = flags.StringSlice(o.Flag, v, o.Usage)
	case LogLevel:
		_ = flags.String(o.Flag, string(v), o.Usage)
	case FormatType:
		_ = flags.String(o.Flag, string(v), o.Usage)
	case OutputType:
		_ = flags.String(o.Flag, string(v), o.Usage)
	case int:
		_ = flags.Int(o.Flag, v, o.Usage)
	case time.Duration:
		_ = flags.Duration(o.Flag, v, o.Usage)
	case bool:
		_ = flags.Bool(o.Flag, v, o.Usage)
	default:
		_ = flags.String(o.Flag, "", o.Usage)
	}

	return flags.Lookup(o.Flag)
}

// createFlagName creates a flag name from a field
func createFlagName(field string) string {
	updatedField := strings.ReplaceAll(field, ".", "-")
	return strings.ToLower(updatedField)
}

// createEnvName creates an environment variable name from a field
func createEnvName(field string) string {
	updatedField := strings.ReplaceAll(field, ".", "_")
	updatedField = strings.ToUpper(updatedField)
	return "LOGSIM_" + updatedField
}

// DefaultOverrides returns all overrides for the application. The route list
// itself has no override; routes are list-valued and come from the config
// file only.
func DefaultOverrides() []*Override {
	return []*Override{
		NewOverride("logging.type", "output of the diagnostic log. One of: stderr", LoggingTypeStderr),
		NewOverride("logging.level", "log level to use. One of: debug|info|warn|error", LogLevelInfo),
		NewOverride("format.type", "record format. One of: access|json", FormatTypeAccess),
		NewOverride("health.host", "health endpoint bind host", DefaultHealthHost),
		NewOverride("health.port", "health endpoint bind port", DefaultHealthPort),
		NewOverride("output.type", "output type. One of: nop|stdout|tcp|udp|otlp-grpc|kafka|nats|redis", OutputTypeStdout),
		NewOverride("output.udp.host", "UDP output target host", ""),
		NewOverride("output.udp.port", "UDP output target port", 0),
		NewOverride("output.udp.workers", "number of UDP output workers", 1),
		NewOverride("output.tcp.host", "TCP output target host", ""),
		NewOverride("output.tcp.port", "TCP output target port", 0),
		NewOverride("output.tcp.workers", "number of TCP output workers", 1),
		NewOverride("output.otlpGrpc.host", "OTLP gRPC output target host", DefaultOTLPGrpcHost),
		NewOverride("output.otlpGrpc.port", "OTLP gRPC output target port", DefaultOTLPGrpcPort),
		NewOverride("output.otlpGrpc.workers", "number of OTLP gRPC output workers", DefaultOTLPGrpcWorkers),
		NewOverride("output.otlpGrpc.batchTimeout", "OTLP gRPC output batch timeout", DefaultOTLPGrpcBatchTimeout),
		NewOverride("output.otlpGrpc.maxQueueSize", "OTLP gRPC output maximum queue size", DefaultOTLPGrpcMaxQueueSize),
		NewOverride("output.otlpGrpc.maxExportBatchSize", "OTLP gRPC output maximum export batch size", DefaultOTLPGrpcMaxExportBatchSize),
		NewOverride("output.kafka.brokers", "Kafka output broker addresses", []string{}),
		NewOverride("output.kafka.topic", "Kafka output topic", DefaultKafkaTopic),
		NewOverride("output.kafka.workers", "number of Kafka output workers", 1),
		NewOverride("output.nats.url", "NATS output server URL", DefaultNATSURL),
		NewOverride("output.nats.subject", "NATS output subject", DefaultNATSSubject),
		NewOverride("output.nats.workers", "number of NATS output workers", 1),
		NewOverride("output.redis.addr", "Redis output server address", DefaultRedisAddr),
		NewOverride("output.redis.key", "Redis output list key", DefaultRedisKey),
		NewOverride("output.redis.workers", "number of Redis output workers", 1),
	}
}
