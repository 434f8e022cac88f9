package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider holds all observability components.
type Provider struct {
	Logger         *Logger
	Metrics        *Metrics
	Tracer         *Tracer
	tracerProvider *sdktrace.TracerProvider
	config         Config
}

// Config holds observability configuration.
type Config struct {
	ServiceName     string
	ServiceVersion  string
	Environment     string
	LogLevel        string
	MetricsEnabled  bool
	TracingEnabled  bool
	TracingEndpoint string
}

// DefaultConfig returns the default observability configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:     "user-service",
		ServiceVersion:  "1.0.0",
		Environment:     "development",
		LogLevel:        "info",
		MetricsEnabled:  true,
		TracingEnabled:  false,
		TracingEndpoint: "",
	}
}

// New creates a new observability provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{
		config:  cfg,
		Logger:  NewLogger(cfg.LogLevel),
		Metrics: NewMetrics(metricsNamespace(cfg.ServiceName)),
		Tracer:  NewTracer(cfg.ServiceName),
	}

	if cfg.TracingEnabled && cfg.TracingEndpoint != "" {
		if err := p.initTracing(context.Background()); err != nil {
			p.Logger.Error("failed to initialize tracing", err)
		}
	}

	return p, nil
}

func (p *Provider) initTracing(ctx context.Context) error {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(p.config.TracingEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(p.config.ServiceName),
			semconv.ServiceVersion(p.config.ServiceVersion),
			semconv.DeploymentEnvironment(p.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return nil
}

// Shutdown gracefully shuts down all observability components.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("tracer shutdown: %w", err)
		}
	}
	return nil
}

// metricsNamespace converts a service name into a Prometheus namespace.
func metricsNamespace(service string) string {
	ns := make([]rune, 0, len(service))
	for _, r := range service {
		if r == '-' || r == '.' {
			r = '_'
		}
		ns = append(ns, r)
	}
	return string(ns)
}
