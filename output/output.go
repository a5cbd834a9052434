// Package output contains the sinks rendered records are written to.
package output

import (
	"context"
)

// Writer can consume rendered records. Implementations must be safe for
// concurrent use; every record is delivered to the sink as one whole line.
type Writer interface {
	// Write writes one rendered record to the output. The record carries
	// no trailing newline; the output owns framing.
	Write(ctx context.Context, data []byte) error
}

// Output is the interface for record destinations.
type Output interface {
	Writer

	// Stop stops the output.
	Stop(ctx context.Context) error
}
