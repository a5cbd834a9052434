package output

import (
	"context"
	"fmt"

	"github.com/logsim/logsim/internal/workermanager"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	// DefaultNATSChannelSize is the default size of the record channel
	DefaultNATSChannelSize = 100

	// DefaultNATSWorkers is the default number of worker goroutines
	DefaultNATSWorkers = 1
)

// NATS implements the Output interface for a NATS subject using core publish.
type NATS struct {
	logger        *zap.Logger
	url           string
	subject       string
	workers       int
	dataChan      chan []byte
	ctx           context.Context
	cancel        context.CancelFunc
	workerManager *workermanager.WorkerManager
}

// NewNATS creates a new NATS output instance
func NewNATS(logger *zap.Logger, url, subject string, workers int) (*NATS, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if url == "" {
		return nil, fmt.Errorf("url cannot be empty")
	}
	if subject == "" {
		return nil, fmt.Errorf("subject cannot be empty")
	}
	if workers <= 0 {
		workers = DefaultNATSWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())

	n := &NATS{
		logger:   logger.Named("output-nats"),
		url:      url,
		subject:  subject,
		workers:  workers,
		dataChan: make(chan []byte, DefaultNATSChannelSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	n.logger.Info("Starting NATS output",
		zap.String("url", n.url),
		zap.String("subject", n.subject),
		zap.Int("workers", n.workers),
		zap.Int("channel_size", DefaultNATSChannelSize),
	)

	// Create worker manager
	n.workerManager = workermanager.NewWorkerManager(n.logger, workers, n.natsWorker)

	// Start the workers
	n.workerManager.Start()

	return n, nil
}

// Write sends a record to the NATS output channel for processing by workers.
// Write shall not be called after Stop is called.
// If the provided context is done, Write will return immediately
// even if the record is not written to the channel.
func (n *NATS) Write(ctx context.Context, data []byte) error {
	select {
	case n.dataChan <- data:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting to write record: %w", ctx.Err())
	case <-n.ctx.Done():
		return fmt.Errorf("NATS output is shutting down")
	}
}

// Stop gracefully shuts down all workers and closes NATS connections
// Stop shall not be called more than once.
// If the provided context is done, Stop will return immediately
// even if workers are still shutting down.
func (n *NATS) Stop(ctx context.Context) error {
	n.logger.Info("Stopping NATS output")

	// Close the channel to ensure workers do not
	// process new records.
	close(n.dataChan)

	// Signal the workers to stop.
	n.cancel()

	// Stop the worker manager
	n.workerManager.Stop()

	n.logger.Info("NATS output stopped successfully")
	return nil
}

// natsWorker drains records from the channel and publishes them to the
// configured subject. This function is designed to work with the worker
// manager, which handles automatic restart with exponential backoff when the
// worker exits due to connection failures or errors. The worker should return
// immediately on any failure - the worker manager will handle reconnection
// attempts with appropriate backoff delays.
func (n *NATS) natsWorker(id int) {
	n.logger.Info("Starting NATS worker", zap.Int("worker_id", id))

	conn, err := n.connect()
	if err != nil {
		n.logger.Error("Failed to establish initial NATS connection",
			zap.Int("worker_id", id),
			zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		select {
		case data, ok := <-n.dataChan:
			if !ok {
				// Publishes are buffered client side. Flush so the tail
				// of the stream reaches the server before Close.
				if err := conn.Flush(); err != nil {
					n.logger.Error("Failed to flush NATS connection",
						zap.Int("worker_id", id),
						zap.Error(err))
				}
				n.logger.Info("NATS worker exiting - channel closed", zap.Int("worker_id", id))
				return
			}

			if err := conn.Publish(n.subject, data); err != nil {
				n.logger.Error("Failed to publish NATS record",
					zap.Int("worker_id", id),
					zap.Error(err))
				return
			}

		case <-n.ctx.Done():
			n.logger.Info("NATS worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// connect establishes a NATS connection to the configured server
func (n *NATS) connect() (*nats.Conn, error) {
	conn, err := nats.Connect(n.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return conn, nil
}
