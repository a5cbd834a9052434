package output

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/logsim/logsim/internal/workermanager"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	// DefaultKafkaChannelSize is the default size of the record channel
	DefaultKafkaChannelSize = 100

	// DefaultKafkaWorkers is the default number of worker goroutines
	DefaultKafkaWorkers = 1
)

// Kafka implements the Output interface for a Kafka topic. Each record is
// produced as one message keyed with a fresh ULID so partitions receive an
// even spread.
type Kafka struct {
	logger        *zap.Logger
	brokers       []string
	topic         string
	workers       int
	dataChan      chan []byte
	ctx           context.Context
	cancel        context.CancelFunc
	workerManager *workermanager.WorkerManager
}

// NewKafka creates a new Kafka output instance
func NewKafka(logger *zap.Logger, brokers []string, topic string, workers int) (*Kafka, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if workers <= 0 {
		workers = DefaultKafkaWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())

	k := &Kafka{
		logger:   logger.Named("output-kafka"),
		brokers:  brokers,
		topic:    topic,
		workers:  workers,
		dataChan: make(chan []byte, DefaultKafkaChannelSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	k.logger.Info("Starting Kafka output",
		zap.Strings("brokers", k.brokers),
		zap.String("topic", k.topic),
		zap.Int("workers", k.workers),
		zap.Int("channel_size", DefaultKafkaChannelSize),
	)

	// Create worker manager
	k.workerManager = workermanager.NewWorkerManager(k.logger, workers, k.kafkaWorker)

	// Start the workers
	k.workerManager.Start()

	return k, nil
}

// Write sends a record to the Kafka output channel for processing by workers.
// Write shall not be called after Stop is called.
// If the provided context is done, Write will return immediately
// even if the record is not written to the channel.
func (k *Kafka) Write(ctx context.Context, data []byte) error {
	select {
	case k.dataChan <- data:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting to write record: %w", ctx.Err())
	case <-k.ctx.Done():
		return fmt.Errorf("Kafka output is shutting down")
	}
}

// Stop gracefully shuts down all workers and closes their producers
// Stop shall not be called more than once.
// If the provided context is done, Stop will return immediately
// even if workers are still shutting down.
func (k *Kafka) Stop(ctx context.Context) error {
	k.logger.Info("Stopping Kafka output")

	// Close the channel to ensure workers do not
	// process new records.
	close(k.dataChan)

	// Signal the workers to stop.
	k.cancel()

	// Stop the worker manager
	k.workerManager.Stop()

	k.logger.Info("Kafka output stopped successfully")
	return nil
}

// kafkaWorker drains records from the channel and produces them to the
// configured topic. This function is designed to work with the worker
// manager, which handles automatic restart with exponential backoff when the
// worker exits due to broker failures or errors. The worker should return
// immediately on any failure - the worker manager will handle reconnection
// attempts with appropriate backoff delays.
func (k *Kafka) kafkaWorker(id int) {
	k.logger.Info("Starting Kafka worker", zap.Int("worker_id", id))

	producer, err := k.connect()
	if err != nil {
		k.logger.Error("Failed to establish initial Kafka connection",
			zap.Int("worker_id", id),
			zap.Error(err))
		return
	}
	defer producer.Close()

	for {
		select {
		case data, ok := <-k.dataChan:
			if !ok {
				k.logger.Info("Kafka worker exiting - channel closed", zap.Int("worker_id", id))
				return
			}

			if err := k.sendRecord(producer, data); err != nil {
				k.logger.Error("Failed to produce Kafka record",
					zap.Int("worker_id", id),
					zap.Error(err))
				return
			}

		case <-k.ctx.Done():
			k.logger.Info("Kafka worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// connect creates a synchronous producer connected to the configured brokers
func (k *Kafka) connect() (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(k.brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to brokers %v: %w", k.brokers, err)
	}

	return producer, nil
}

// sendRecord produces one record to the configured topic
func (k *Kafka) sendRecord(producer sarama.SyncProducer, data []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(ulid.Make().String()),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err := producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to produce record: %w", err)
	}

	return nil
}
