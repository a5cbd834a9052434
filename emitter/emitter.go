package emitter

import "context"

type recordWriter interface {
	Write(ctx context.Context, data []byte) error
}

// Emitter is the interface for the per-route emission loops.
type Emitter interface {
	// Start starts the emitter and writes records using the
	// provided record writer.
	Start(writer recordWriter) error

	// Stop stops the emitter.
	Stop(ctx context.Context) error
}
