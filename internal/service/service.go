// Package service ties the emitters, the output and the health server into
// one unit with a single start and stop.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/logsim/logsim/emitter"
	"github.com/logsim/logsim/internal/healthserver"
	"github.com/logsim/logsim/output"
	"go.uber.org/zap"
)

type Service struct {
	Logger   *zap.Logger
	Emitters []emitter.Emitter
	Output   output.Output
	Health   *healthserver.Server
}

func New(logger *zap.Logger, emitters []emitter.Emitter, out output.Output, health *healthserver.Server) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if len(emitters) == 0 {
		return nil, fmt.Errorf("emitters cannot be empty")
	}
	if out == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}
	if health == nil {
		return nil, fmt.Errorf("health server cannot be nil")
	}

	return &Service{
		Logger:   logger,
		Emitters: emitters,
		Output:   out,
		Health:   health,
	}, nil
}

// Start starts the health server, then every emitter against the shared
// output. A bind failure on the health endpoint stops startup before any
// record is emitted.
func (s *Service) Start() error {
	if err := s.Health.Start(); err != nil {
		return fmt.Errorf("start health server: %w", err)
	}

	for _, em := range s.Emitters {
		if err := em.Start(s.Output); err != nil {
			return fmt.Errorf("start emitter: %w", err)
		}
	}

	return nil
}

// Stop stops the emitters, then the output, then the health server. Stop
// will block for up to 30 seconds. Every component gets its chance to stop
// even when an earlier one fails; the first error is returned.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var firstErr error

	for _, em := range s.Emitters {
		if err := em.Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop emitter: %w", err)
		}
	}

	if err := s.Output.Stop(ctx); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("stop output: %w", err)
	}

	if err := s.Health.Stop(ctx); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("stop health server: %w", err)
	}

	return firstErr
}
