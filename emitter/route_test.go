package emitter

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/logsim/logsim/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockWriter implements recordWriter for testing
type mockWriter struct {
	mu       sync.Mutex
	writes   [][]byte
	errors   []error
	writeErr error
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		writes: make([][]byte, 0),
		errors: make([]error, 0),
	}
}

func (m *mockWriter) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		err := m.writeErr
		m.errors = append(m.errors, err)
		return err
	}

	m.writes = append(m.writes, data)
	return nil
}

func (m *mockWriter) getWrites() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.writes...)
}

func (m *mockWriter) getErrors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errors...)
}

func (m *mockWriter) setWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// emittedRecord mirrors the JSON format for unmarshalling in assertions
type emittedRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Route     string    `json:"route"`
	Code      int       `json:"code"`
}

func TestNewRouteEmitter(t *testing.T) {
	logger := zaptest.NewLogger(t)

	e, err := NewRouteEmitter(logger, "/orders", 20, 25, format.NewJSON())

	assert.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, "/orders", e.path)
	assert.Equal(t, 20.0, e.rate)
	assert.Equal(t, 25.0, e.fail)
	assert.Equal(t, 50*time.Millisecond, e.interval)
	assert.NotNil(t, e.stopCh)
}

func TestNewRouteEmitter_InvalidArguments(t *testing.T) {
	logger := zaptest.NewLogger(t)
	formatter := format.NewJSON()

	cases := []struct {
		name   string
		create func() (*RouteEmitter, error)
		errMsg string
	}{
		{
			name: "nil logger",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(nil, "/orders", 10, 0, formatter)
			},
			errMsg: "logger cannot be nil",
		},
		{
			name: "empty path",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "", 10, 0, formatter)
			},
			errMsg: "path cannot be empty",
		},
		{
			name: "zero rate",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "/orders", 0, 0, formatter)
			},
			errMsg: "rate must be positive",
		},
		{
			name: "negative rate",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "/orders", -5, 0, formatter)
			},
			errMsg: "rate must be positive",
		},
		{
			name: "fail above 100",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "/orders", 10, 100.5, formatter)
			},
			errMsg: "fail percentage must be between 0 and 100",
		},
		{
			name: "negative fail",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "/orders", 10, -1, formatter)
			},
			errMsg: "fail percentage must be between 0 and 100",
		},
		{
			name: "nil formatter",
			create: func() (*RouteEmitter, error) {
				return NewRouteEmitter(logger, "/orders", 10, 0, nil)
			},
			errMsg: "formatter cannot be nil",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := tc.create()
			assert.Error(t, err)
			assert.Nil(t, e)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestRouteEmitter_Start(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	e, err := NewRouteEmitter(logger, "/orders", 50, 25, format.NewJSON())
	require.NoError(t, err)

	err = e.Start(writer)
	assert.NoError(t, err)

	// Wait for some records to be emitted
	time.Sleep(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = e.Stop(ctx)
	assert.NoError(t, err)

	writes := writer.getWrites()
	assert.Greater(t, len(writes), 0, "Expected some records to be emitted")

	// Every record carries the route path and a valid status
	for _, write := range writes {
		var rec emittedRecord
		err := json.Unmarshal(write, &rec)
		assert.NoError(t, err, "Record should be valid JSON")

		assert.NotZero(t, rec.Timestamp, "Timestamp should be set")
		assert.Equal(t, "/orders", rec.Route)
		assert.Contains(t, []int{200, 500}, rec.Code)
	}
}

func TestRouteEmitter_StatusDistribution(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("fail zero emits only 200", func(t *testing.T) {
		writer := newMockWriter()
		e, err := NewRouteEmitter(logger, "/users", 200, 0, format.NewJSON())
		require.NoError(t, err)
		require.NoError(t, e.Start(writer))

		time.Sleep(150 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, e.Stop(ctx))

		writes := writer.getWrites()
		require.Greater(t, len(writes), 0)
		for _, write := range writes {
			var rec emittedRecord
			require.NoError(t, json.Unmarshal(write, &rec))
			assert.Equal(t, 200, rec.Code)
		}
	})

	t.Run("fail hundred emits only 500", func(t *testing.T) {
		writer := newMockWriter()
		e, err := NewRouteEmitter(logger, "/users", 200, 100, format.NewJSON())
		require.NoError(t, err)
		require.NoError(t, e.Start(writer))

		time.Sleep(150 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, e.Stop(ctx))

		writes := writer.getWrites()
		require.Greater(t, len(writes), 0)
		for _, write := range writes {
			var rec emittedRecord
			require.NoError(t, json.Unmarshal(write, &rec))
			assert.Equal(t, 500, rec.Code)
		}
	})

	t.Run("fail fifty emits a mix", func(t *testing.T) {
		writer := newMockWriter()
		e, err := NewRouteEmitter(logger, "/users", 1000, 50, format.NewJSON())
		require.NoError(t, err)
		require.NoError(t, e.Start(writer))

		time.Sleep(500 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, e.Stop(ctx))

		writes := writer.getWrites()
		require.GreaterOrEqual(t, len(writes), 100, "Expected a large sample at 1000 records/sec")

		var failures int
		for _, write := range writes {
			var rec emittedRecord
			require.NoError(t, json.Unmarshal(write, &rec))
			if rec.Code == 500 {
				failures++
			}
		}

		// With at least 100 samples the 500 share lands well inside 20-80%
		share := float64(failures) / float64(len(writes))
		assert.Greater(t, share, 0.2, "Expected a meaningful share of 500s")
		assert.Less(t, share, 0.8, "Expected a meaningful share of 200s")
	})
}

func TestRouteEmitter_Pacing(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()

	// 10 records/sec means at most 11 records fit in just over a second
	e, err := NewRouteEmitter(logger, "/orders", 10, 0, format.NewJSON())
	require.NoError(t, err)
	require.NoError(t, e.Start(writer))

	time.Sleep(1050 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.Stop(ctx))

	writes := writer.getWrites()
	assert.GreaterOrEqual(t, len(writes), 5, "Emission should keep roughly to the configured rate")
	assert.LessOrEqual(t, len(writes), 15, "Emission should not outrun the configured rate")
}

func TestRouteEmitter_WriteErrorsPauseAndContinue(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	writer.setWriteError(errors.New("write failed"))

	e, err := NewRouteEmitter(logger, "/orders", 100, 0, format.NewJSON())
	require.NoError(t, err)
	require.NoError(t, e.Start(writer))

	// Each failed emission is followed by a one second pause, so a little
	// over a second covers at least two attempts.
	time.Sleep(1200 * time.Millisecond)
	assert.GreaterOrEqual(t, len(writer.getErrors()), 2, "Emitter should keep retrying after errors")

	// Clear the fault; the loop must pick back up on its own
	writer.setWriteError(nil)
	time.Sleep(1200 * time.Millisecond)
	assert.Greater(t, len(writer.getWrites()), 0, "Emitter should recover once writes succeed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(ctx))
}

func TestRouteEmitter_StopDuringErrorPause(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()
	writer.setWriteError(errors.New("write failed"))

	e, err := NewRouteEmitter(logger, "/orders", 100, 0, format.NewJSON())
	require.NoError(t, err)
	require.NoError(t, e.Start(writer))

	// Land inside the one second error pause
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	err = e.Stop(ctx)
	duration := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, duration, 500*time.Millisecond, "Stop should interrupt the error pause")
}

func TestRouteEmitter_StopDuringRateSleep(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()

	// A rate of 0.2 records/sec sleeps five seconds between emissions
	e, err := NewRouteEmitter(logger, "/orders", 0.2, 0, format.NewJSON())
	require.NoError(t, err)
	require.NoError(t, e.Start(writer))

	// Land inside the five second rate sleep
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	err = e.Stop(ctx)
	duration := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, duration, 500*time.Millisecond, "Stop should interrupt the rate sleep")
	assert.Len(t, writer.getWrites(), 1, "Only the immediate first record should have been emitted")
}

func TestRouteEmitter_MultipleRoutesShareWriter(t *testing.T) {
	logger := zaptest.NewLogger(t)
	writer := newMockWriter()

	orders, err := NewRouteEmitter(logger, "/orders", 100, 0, format.NewJSON())
	require.NoError(t, err)
	users, err := NewRouteEmitter(logger, "/users", 100, 0, format.NewJSON())
	require.NoError(t, err)

	require.NoError(t, orders.Start(writer))
	require.NoError(t, users.Start(writer))

	time.Sleep(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, orders.Stop(ctx))
	require.NoError(t, users.Stop(ctx))

	routes := make(map[string]int)
	for _, write := range writer.getWrites() {
		var rec emittedRecord
		require.NoError(t, json.Unmarshal(write, &rec))
		routes[rec.Route]++
	}

	assert.Greater(t, routes["/orders"], 0, "Expected records from /orders")
	assert.Greater(t, routes["/users"], 0, "Expected records from /users")
}
