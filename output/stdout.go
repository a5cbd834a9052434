package output

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Stdout implements the Output interface for the process stdout stream.
// A mutex serializes writers so concurrent records never interleave, and
// each record goes out as a single write call so it is visible to
// consumers immediately. No buffering happens in between.
type Stdout struct {
	logger *zap.Logger
	mu     sync.Mutex
	out    io.Writer
	buf    []byte
}

// NewStdout creates a new stdout output writing to w, typically os.Stdout.
func NewStdout(logger *zap.Logger, w io.Writer) (*Stdout, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if w == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}

	return &Stdout{
		logger: logger.Named("output-stdout"),
		out:    w,
	}, nil
}

// Write writes one record and its newline frame as a single call on the
// underlying stream. Safe for concurrent use.
func (s *Stdout) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reuse one framing buffer; the mutex makes this safe.
	s.buf = append(s.buf[:0], data...)
	s.buf = append(s.buf, '\n')

	if _, err := s.out.Write(s.buf); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Stop performs no work; stdout is closed by the process, not the output.
func (s *Stdout) Stop(_ context.Context) error {
	s.logger.Info("Stopping stdout output")
	return nil
}
