package output

import "time"

// timeToUnixNanoUint64 converts a time.Time to the uint64 nanosecond
// timestamps the OTLP protobuf fields require. UnixNano returns int64;
// negative values (pre-epoch times) clamp to zero.
func timeToUnixNanoUint64(t time.Time) uint64 {
	nanos := t.UnixNano()
	if nanos < 0 {
		return 0
	}
	return uint64(nanos)
}
