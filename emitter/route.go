package emitter

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/logsim/logsim/format"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const (
	// errorPause is how long a route sits out after a failed emission
	// before trying again. The loop itself never exits on error.
	errorPause = time.Second

	// writeTimeout bounds a single write to the output.
	writeTimeout = 5 * time.Second
)

// RouteEmitter emits synthetic records for one route at a fixed rate.
// Each record is stamped status 200 or, with the configured probability,
// status 500 before rendering.
type RouteEmitter struct {
	logger    *zap.Logger
	path      string
	rate      float64
	fail      float64
	interval  time.Duration
	formatter format.Formatter
	wg        sync.WaitGroup
	stopCh    chan struct{}
	meter     metric.Meter

	// Metrics
	recordsEmitted metric.Int64Counter
	emitErrors     metric.Int64Counter
	routeActive    metric.Int64Gauge
}

// NewRouteEmitter creates an emitter for one route. rate is records per
// second and fail is the percentage of records stamped with status 500.
func NewRouteEmitter(logger *zap.Logger, path string, rate, fail float64, formatter format.Formatter) (*RouteEmitter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}
	if rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", rate)
	}
	if fail < 0 || fail > 100 {
		return nil, fmt.Errorf("fail percentage must be between 0 and 100, got %v", fail)
	}
	if formatter == nil {
		return nil, fmt.Errorf("formatter cannot be nil")
	}

	meter := otel.Meter("logsim-emitter")

	// Initialize metrics
	recordsEmitted, err := meter.Int64Counter(
		"logsim.emitter.records.emitted",
		metric.WithDescription("Total number of records emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("create records emitted counter: %w", err)
	}

	emitErrors, err := meter.Int64Counter(
		"logsim.emitter.emit.errors",
		metric.WithDescription("Total number of failed emissions"),
	)
	if err != nil {
		return nil, fmt.Errorf("create emit errors counter: %w", err)
	}

	routeActive, err := meter.Int64Gauge(
		"logsim.emitter.routes.active",
		metric.WithDescription("Whether the route's emission loop is running"),
	)
	if err != nil {
		return nil, fmt.Errorf("create routes active gauge: %w", err)
	}

	return &RouteEmitter{
		logger:         logger,
		path:           path,
		rate:           rate,
		fail:           fail,
		interval:       time.Duration(float64(time.Second) / rate),
		formatter:      formatter,
		stopCh:         make(chan struct{}),
		meter:          meter,
		recordsEmitted: recordsEmitted,
		emitErrors:     emitErrors,
		routeActive:    routeActive,
	}, nil
}

// Start starts the emission loop and writes records using the
// provided record writer.
func (e *RouteEmitter) Start(writer recordWriter) error {
	e.logger.Info("Starting route emitter",
		zap.String("route", e.path),
		zap.Float64("rate", e.rate),
		zap.Float64("fail_percent", e.fail))

	// Record the route as active
	e.routeActive.Record(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "emitter"),
				attribute.String("route", e.path),
			),
		),
	)

	e.wg.Add(1)
	go e.run(writer)

	return nil
}

// Stop stops the emitter.
// This function expects to be called exactly once.
func (e *RouteEmitter) Stop(ctx context.Context) error {
	e.logger.Info("Stopping route emitter", zap.String("route", e.path))

	// Record the route as inactive
	e.routeActive.Record(ctx, 0,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "emitter"),
				attribute.String("route", e.path),
			),
		),
	)

	close(e.stopCh)

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Route emitter stopped", zap.String("route", e.path))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}
}

// run is the emission loop. It emits one record, sleeps out the rate
// interval and repeats until stopped. A failed emission is logged and
// followed by a flat one second pause instead of the rate interval.
func (e *RouteEmitter) run(writer recordWriter) {
	defer e.wg.Done()

	e.logger.Debug("Starting emission loop", zap.String("route", e.path))

	for {
		select {
		case <-e.stopCh:
			e.logger.Debug("Emission loop stopping", zap.String("route", e.path))
			return
		default:
		}

		if err := e.emitRecord(writer); err != nil {
			e.logger.Error("Failed to emit record",
				zap.String("route", e.path),
				zap.Error(err))
			if !e.pause(errorPause) {
				return
			}
			continue
		}

		if !e.pause(e.interval) {
			return
		}
	}
}

// emitRecord renders one record with a randomly stamped status and writes it
func (e *RouteEmitter) emitRecord(writer recordWriter) error {
	status := 200
	if rand.Float64()*100 < e.fail { // #nosec G404
		status = 500
	}

	data, err := e.formatter.Render(e.path, status)
	if err != nil {
		e.recordEmitError("render", err)
		return fmt.Errorf("render record: %w", err)
	}

	// Write the record with timeout
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := writer.Write(ctx, data); err != nil {
		// Classify error type
		errorType := "unknown"
		if ctx.Err() == context.DeadlineExceeded {
			errorType = "timeout"
		}
		e.recordEmitError(errorType, err)
		return err
	}

	// Record emitted counter
	e.recordsEmitted.Add(context.Background(), 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "emitter"),
				attribute.String("route", e.path),
				attribute.Int("status", status),
			),
		),
	)

	return nil
}

// pause waits for d unless the emitter is stopped first. It reports
// whether the emitter is still running.
func (e *RouteEmitter) pause(d time.Duration) bool {
	select {
	case <-e.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

// recordEmitError records metrics for failed emissions
func (e *RouteEmitter) recordEmitError(errorType string, err error) {
	ctx := context.Background()

	e.emitErrors.Add(ctx, 1,
		metric.WithAttributeSet(
			attribute.NewSet(
				attribute.String("component", "emitter"),
				attribute.String("route", e.path),
				attribute.String("error_type", errorType),
			),
		),
	)
}
