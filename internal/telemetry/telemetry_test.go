package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestLoggerWritesJSONWithService(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := newLogger(&buf, "shareit-test", slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("booking created", "booking_id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "booking created", line["msg"])
	assert.Equal(t, "shareit-test", line["service"])
	assert.Equal(t, "abc", line["booking_id"])
	assert.Same(t, logger, slog.Default())
}

func TestInitTracerWithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "shareit-test", "")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitMeterWithoutEndpoint(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	mp, err := InitMeter(context.Background(), "shareit-test", "", time.Minute)
	require.NoError(t, err)
	assert.Same(t, mp, otel.GetMeterProvider())

	counter, err := otel.Meter("test").Int64Counter("shareit.test")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
	require.NoError(t, mp.Shutdown(context.Background()))
}
