package monitor

import (
	"context"
	"errors"
	"fmt"

	"user-management/internal/config/env"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/bridges/otellogrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Monitoring owns the OpenTelemetry providers. The zero value is a disabled
// instance whose Shutdown is a no-op.
type Monitoring struct {
	tracerProvider *trace.TracerProvider
	loggerProvider *log.LoggerProvider
}

// NewMonitoring exports traces and logrus entries over OTLP/HTTP when
// monitoring is enabled. Spans started while it is disabled go to the global
// no-op provider.
func NewMonitoring(ctx context.Context, logger *logrus.Logger, config *env.Config) (*Monitoring, error) {
	if !config.Monitoring.Enabled {
		logger.Debug("Monitoring disabled")
		return &Monitoring{}, nil
	}

	traceExporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(config.Monitoring.Otel.Host),
		otlptracehttp.WithInsecure(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(config.Monitoring.Otel.Host),
		otlploghttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(config.App.Name),
	)

	tp := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)
	lp := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter)),
		log.WithResource(res),
	)

	logger.WithField("endpoint", config.Monitoring.Otel.Host).Info("Monitoring enabled")

	logger.AddHook(otellogrus.NewHook(config.App.Name, otellogrus.WithLoggerProvider(lp)))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return &Monitoring{tracerProvider: tp, loggerProvider: lp}, nil
}

// Shutdown flushes pending spans and log records.
func (m *Monitoring) Shutdown(ctx context.Context) error {
	var errs []error
	if m.tracerProvider != nil {
		errs = append(errs, m.tracerProvider.Shutdown(ctx))
	}
	if m.loggerProvider != nil {
		errs = append(errs, m.loggerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
