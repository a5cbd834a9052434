// Package main is the main package for logsim.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/logsim/logsim/emitter"
	"github.com/logsim/logsim/format"
	"github.com/logsim/logsim/internal/config"
	"github.com/logsim/logsim/internal/healthserver"
	"github.com/logsim/logsim/internal/logging"
	"github.com/logsim/logsim/internal/service"
	"github.com/logsim/logsim/internal/telemetry/metrics"
	"github.com/logsim/logsim/output"
	"github.com/relistan/rubberneck"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// Bind overrides to flags and environment variables
	flags := pflag.NewFlagSet("logsim", pflag.ExitOnError)
	configPath := flags.String("config", "config.yaml", "path to the configuration file")
	for _, override := range config.DefaultOverrides() {
		if err := override.Bind(flags); err != nil {
			fmt.Printf("Failed to bind override %s: %s", override.Field, err.Error())
			os.Exit(1)
		}
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Printf("Failed to parse flags: %s", err.Error())
		os.Exit(1)
	}

	// A .env file is optional
	_ = godotenv.Load()

	// Configure Viper to handle env overrides and the config file
	viper.SetConfigFile(*configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Failed to read config file %s: %s", *configPath, err.Error())
		os.Exit(1)
	}

	cfg := config.NewConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Printf("Failed to unmarshal config: %s", err.Error())
		os.Exit(1)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Failed to validate config: %s", err.Error())
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %s", err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("logsim started")

	// Echo the running config through the diagnostic logger. Stdout is
	// reserved for the record stream.
	rubberneck.NewPrinter(logger.Sugar().Infof, rubberneck.NoAddLineFeed).Print(cfg)

	// Create signal context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen for OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()
	}()

	// The exporter must be registered before any instruments are created
	prom, err := metrics.NewPrometheus()
	if err != nil {
		logger.Error("Failed to create metrics exporter", zap.Error(err))
		os.Exit(1)
	}
	if err := prom.Start(ctx); err != nil {
		logger.Error("Failed to start metrics exporter", zap.Error(err))
		os.Exit(1)
	}

	// Configure output first
	var outputInstance output.Output
	switch cfg.Output.Type {
	case config.OutputTypeNop:
		outputInstance, err = output.NewNopOutput(logger)
		if err != nil {
			logger.Error("Failed to create NOP output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeStdout:
		outputInstance, err = output.NewStdout(logger, os.Stdout)
		if err != nil {
			logger.Error("Failed to create stdout output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeTCP:
		outputInstance, err = output.NewTCP(
			logger,
			cfg.Output.TCP.Host,
			strconv.Itoa(cfg.Output.TCP.Port),
			cfg.Output.TCP.Workers,
		)
		if err != nil {
			logger.Error("Failed to create TCP output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeUDP:
		outputInstance, err = output.NewUDP(
			logger,
			cfg.Output.UDP.Host,
			strconv.Itoa(cfg.Output.UDP.Port),
			cfg.Output.UDP.Workers,
		)
		if err != nil {
			logger.Error("Failed to create UDP output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeOTLPGrpc:
		outputInstance, err = output.NewOTLPGrpc(
			logger,
			output.WithHost(cfg.Output.OTLPGrpc.Host),
			output.WithPort(strconv.Itoa(cfg.Output.OTLPGrpc.Port)),
			output.WithWorkers(cfg.Output.OTLPGrpc.Workers),
			output.WithBatchTimeout(cfg.Output.OTLPGrpc.BatchTimeout),
			output.WithMaxQueueSize(cfg.Output.OTLPGrpc.MaxQueueSize),
			output.WithMaxExportBatchSize(cfg.Output.OTLPGrpc.MaxExportBatchSize),
		)
		if err != nil {
			logger.Error("Failed to create OTLP gRPC output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeKafka:
		outputInstance, err = output.NewKafka(
			logger,
			cfg.Output.Kafka.Brokers,
			cfg.Output.Kafka.Topic,
			cfg.Output.Kafka.Workers,
		)
		if err != nil {
			logger.Error("Failed to create Kafka output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeNATS:
		outputInstance, err = output.NewNATS(
			logger,
			cfg.Output.NATS.URL,
			cfg.Output.NATS.Subject,
			cfg.Output.NATS.Workers,
		)
		if err != nil {
			logger.Error("Failed to create NATS output", zap.Error(err))
			os.Exit(1)
		}
	case config.OutputTypeRedis:
		outputInstance, err = output.NewRedis(
			logger,
			cfg.Output.Redis.Addr,
			cfg.Output.Redis.Key,
			cfg.Output.Redis.Workers,
		)
		if err != nil {
			logger.Error("Failed to create Redis output", zap.Error(err))
			os.Exit(1)
		}
	default:
		logger.Error("Invalid output type", zap.String("type", string(cfg.Output.Type)))
		os.Exit(1)
	}

	// Configure the record format
	var formatter format.Formatter
	switch cfg.Format.Type {
	case config.FormatTypeAccess:
		formatter = format.NewAccess()
	case config.FormatTypeJSON:
		formatter = format.NewJSON()
	default:
		logger.Error("Invalid format type", zap.String("type", string(cfg.Format.Type)))
		os.Exit(1)
	}

	// One emitter per configured route
	emitters := make([]emitter.Emitter, 0, len(cfg.Routes))
	for _, route := range cfg.Routes {
		em, err := emitter.NewRouteEmitter(logger, route.Path(), route.Rate, route.Fail, formatter)
		if err != nil {
			logger.Error("Failed to create emitter", zap.String("route", route.Path()), zap.Error(err))
			os.Exit(1)
		}
		emitters = append(emitters, em)
	}

	health, err := healthserver.New(logger, cfg.Health.Host, cfg.Health.Port, len(cfg.Routes))
	if err != nil {
		logger.Error("Failed to create health server", zap.Error(err))
		os.Exit(1)
	}

	service, err := service.New(logger, emitters, outputInstance, health)
	if err != nil {
		logger.Error("Failed to create service", zap.Error(err))
		os.Exit(1)
	}

	if err := service.Start(); err != nil {
		logger.Error("Failed to start service", zap.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()

	if err := service.Stop(); err != nil {
		logger.Error("Failed to stop service", zap.Error(err))
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := prom.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop metrics exporter", zap.Error(err))
	}

	logger.Info("logsim shutdown complete")
}
