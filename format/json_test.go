package format

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRender_Fields(t *testing.T) {
	formatter := NewJSON()
	fixed := time.Date(2025, time.June, 1, 12, 30, 0, 123456789, time.UTC)
	formatter.now = func() time.Time { return fixed }

	data, err := formatter.Render("/api/orders", 500)
	require.NoError(t, err)

	var record jsonRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.True(t, fixed.Equal(record.Timestamp))
	assert.Equal(t, "/api/orders", record.Route)
	assert.Equal(t, 500, record.Code)
}

func TestJSONRender_ExactKeys(t *testing.T) {
	formatter := NewJSON()

	data, err := formatter.Render("/home", 200)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	require.Len(t, generic, 3)
	assert.Contains(t, generic, "timestamp")
	assert.Contains(t, generic, "route")
	assert.Contains(t, generic, "code")
}

func TestJSONRender_SingleLineUTC(t *testing.T) {
	formatter := NewJSON()
	formatter.now = func() time.Time {
		return time.Date(2025, time.June, 1, 5, 0, 0, 0, time.FixedZone("IST", 5*3600+30*60))
	}

	data, err := formatter.Render("/home", 200)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "\n")
	// 05:00 at +05:30 is 23:30 the previous day in UTC.
	assert.Contains(t, string(data), "2025-05-31T23:30:00Z")
}

func BenchmarkJSONRender(b *testing.B) {
	formatter := NewJSON()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := formatter.Render("/api/users", 200)
		// Prevent compiler optimization
		_ = err
	}
}
