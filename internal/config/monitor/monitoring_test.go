package monitor

import (
	"context"
	"io"
	"testing"

	"user-management/internal/config/env"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewMonitoring_Disabled(t *testing.T) {
	logger := newLogger()
	cfg := &env.Config{}
	cfg.App.Name = "test-app"

	m, err := NewMonitoring(context.Background(), logger, cfg)
	require.NoError(t, err)
	require.Nil(t, m.tracerProvider)
	require.Empty(t, logger.Hooks)
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestNewMonitoring_Enabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	cases := []struct {
		name string
		host string
	}{
		{name: "valid host", host: "localhost:4318"},
		{name: "empty host", host: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := newLogger()
			cfg := &env.Config{}
			cfg.App.Name = "test-app"
			cfg.Monitoring.Enabled = true
			cfg.Monitoring.Otel.Host = tc.host

			m, err := NewMonitoring(context.Background(), logger, cfg)
			require.NoError(t, err)
			require.NotNil(t, m.tracerProvider)
			require.NotNil(t, m.loggerProvider)
			require.Same(t, m.tracerProvider, otel.GetTracerProvider())

			added := 0
			for level := logrus.PanicLevel; level <= logrus.TraceLevel; level++ {
				added += len(logger.Hooks[level])
			}
			require.Greater(t, added, 0)

			// Nothing was recorded, so shutdown has nothing to export.
			require.NoError(t, m.Shutdown(context.Background()))
		})
	}
}
