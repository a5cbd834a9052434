// Package workermanager runs and supervises the worker goroutines behind the
// network outputs.
//
// A WorkerManager owns a fixed set of workers. Each worker is a function that
// connects to some destination and drains records until it fails or is told
// to stop. When a worker returns while the manager is still running, the
// manager restarts it with exponential backoff and keeps doing so until Stop
// is called; a sink never gives up on its destination. Workers signal clean
// shutdown by returning after their record channel is closed or their context
// is cancelled.
//
// Typical wiring from an output:
//
//	out.workerManager = workermanager.NewWorkerManager(out.logger, workers, out.worker)
//	out.workerManager.Start()
//	...
//	close(out.dataChan)
//	out.cancel()
//	out.workerManager.Stop()
package workermanager

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// WorkerManager manages worker goroutines with graceful reconnection
type WorkerManager struct {
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	workerFunc    func(id int)
	workerCount   int
	activeWorkers int32
	mu            sync.RWMutex
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(logger *zap.Logger, workerCount int, workerFunc func(id int)) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerManager{
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		workerFunc:  workerFunc,
		workerCount: workerCount,
	}
}

// Start starts the worker manager and spawns initial workers
func (wm *WorkerManager) Start() {
	wm.logger.Info("Starting worker manager", zap.Int("target_workers", wm.workerCount))

	for i := 0; i < wm.workerCount; i++ {
		wm.startWorker(i)
	}
}

// Stop stops the worker manager and waits for all workers to finish
func (wm *WorkerManager) Stop() {
	wm.logger.Info("Stopping worker manager")
	wm.cancel()
	wm.wg.Wait()
	wm.logger.Info("Worker manager stopped")
}

// startWorker starts a single worker with graceful reconnection
func (wm *WorkerManager) startWorker(id int) {
	wm.mu.Lock()
	wm.activeWorkers++
	wm.mu.Unlock()

	wm.wg.Add(1)
	go wm.runWorker(id)
}

// runWorker runs a worker, restarting it with exponential backoff whenever it
// returns before the manager is stopped. MaxElapsedTime is zero so the retry
// loop never expires on its own.
func (wm *WorkerManager) runWorker(id int) {
	defer wm.wg.Done()
	defer func() {
		wm.mu.Lock()
		wm.activeWorkers--
		wm.mu.Unlock()
	}()

	backoffPolicy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.1),
		backoff.WithMaxElapsedTime(0),
	)

	for {
		select {
		case <-wm.ctx.Done():
			wm.logger.Info("Worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		default:
			// Run the worker function
			wm.workerFunc(id)

			// The worker returned. During shutdown the context is cancelled
			// and the select above exits; any other return is a failure
			// worth retrying.
			select {
			case <-wm.ctx.Done():
				wm.logger.Info("Worker exiting - context cancelled during backoff", zap.Int("worker_id", id))
				return
			default:
				delay := backoffPolicy.NextBackOff()
				if delay == backoff.Stop {
					wm.logger.Error("Worker retry policy exhausted", zap.Int("worker_id", id))
					return
				}

				wm.logger.Warn("Worker failed, retrying with backoff",
					zap.Int("worker_id", id),
					zap.Duration("delay", delay))

				// Wait for backoff delay or context cancellation
				select {
				case <-wm.ctx.Done():
					return
				case <-time.After(delay):
					// Continue to retry
				}
			}
		}
	}
}

// GetActiveWorkerCount returns the current number of active workers
func (wm *WorkerManager) GetActiveWorkerCount() int {
	wm.mu.RLock()
	defer wm.mu.RUnlock()
	return int(wm.activeWorkers)
}
