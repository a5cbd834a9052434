// Package config contains the top level configuration structures and logic
package config

// Config is the configuration for logsim.
type Config struct {
	// Logging configuration for the diagnostic logger
	Logging Logging `yaml:"logging,omitempty" mapstructure:"logging,omitempty"`
	// Routes is the list of simulated routes to emit traffic for
	Routes []Route `yaml:"routes,omitempty" mapstructure:"routes,omitempty"`
	// Format configuration for rendered records
	Format Format `yaml:"format,omitempty" mapstructure:"format,omitempty"`
	// Health configuration for the liveness endpoint
	Health Health `yaml:"health,omitempty" mapstructure:"health,omitempty"`
	// Output configuration
	Output Output `yaml:"output,omitempty" mapstructure:"output,omitempty"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := ValidateRoutes(c.Routes); err != nil {
		return err
	}
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if err := c.Health.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return nil
}

// NewConfig returns a new config
func NewConfig() *Config {
	return &Config{}
}

// ApplyDefaults applies default values to the configuration
func (c *Config) ApplyDefaults() {
	// Apply format defaults
	if c.Format.Type == "" {
		c.Format.Type = FormatTypeAccess
	}

	// Apply health defaults
	if c.Health.Host == "" {
		c.Health.Host = DefaultHealthHost
	}
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}

	// Apply output defaults
	if c.Output.Type == "" {
		c.Output.Type = OutputTypeStdout
	}

	// Apply logging defaults
	if c.Logging.Type == "" {
		c.Logging.Type = LoggingTypeStderr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}

	// Apply TCP output defaults
	if c.Output.TCP.Workers == 0 {
		c.Output.TCP.Workers = 1
	}

	// Apply UDP output defaults
	if c.Output.UDP.Workers == 0 {
		c.Output.UDP.Workers = 1
	}

	// Apply Kafka output defaults
	if c.Output.Kafka.Workers == 0 {
		c.Output.Kafka.Workers = 1
	}
	if c.Output.Kafka.Topic == "" {
		c.Output.Kafka.Topic = DefaultKafkaTopic
	}

	// Apply NATS output defaults
	if c.Output.NATS.Workers == 0 {
		c.Output.NATS.Workers = 1
	}
	if c.Output.NATS.URL == "" {
		c.Output.NATS.URL = DefaultNATSURL
	}
	if c.Output.NATS.Subject == "" {
		c.Output.NATS.Subject = DefaultNATSSubject
	}

	// Apply Redis output defaults
	if c.Output.Redis.Workers == 0 {
		c.Output.Redis.Workers = 1
	}
	if c.Output.Redis.Addr == "" {
		c.Output.Redis.Addr = DefaultRedisAddr
	}
	if c.Output.Redis.Key == "" {
		c.Output.Redis.Key = DefaultRedisKey
	}

	// Apply OTLP gRPC output defaults
	if c.Output.OTLPGrpc.Host == "" {
		c.Output.OTLPGrpc.Host = DefaultOTLPGrpcHost
	}
	if c.Output.OTLPGrpc.Port == 0 {
		c.Output.OTLPGrpc.Port = DefaultOTLPGrpcPort
	}
	if c.Output.OTLPGrpc.Workers == 0 {
		c.Output.OTLPGrpc.Workers = DefaultOTLPGrpcWorkers
	}
	if c.Output.OTLPGrpc.BatchTimeout == 0 {
		c.Output.OTLPGrpc.BatchTimeout = DefaultOTLPGrpcBatchTimeout
	}
	if c.Output.OTLPGrpc.MaxQueueSize == 0 {
		c.Output.OTLPGrpc.MaxQueueSize = DefaultOTLPGrpcMaxQueueSize
	}
	if c.Output.OTLPGrpc.MaxExportBatchSize == 0 {
		c.Output.OTLPGrpc.MaxExportBatchSize = DefaultOTLPGrpcMaxExportBatchSize
	}
}
