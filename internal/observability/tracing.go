package observability

import (
	"context"
	"fmt"

	"github.com/wardbooklabs/wardbook/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SetupTracing installs an OTLP trace exporter when an endpoint is
// configured. Without one, tracing stays on the no-op default.
func SetupTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	endpoint := cfg.Observability.OTLPEndpoint
	if endpoint == "" {
		return nil
	}

	var client otlptrace.Client
	switch cfg.Observability.OTLPProtocol {
	case "http":
		client = otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
	case "grpc", "":
		client = otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return fmt.Errorf("unsupported otlp protocol: %s", cfg.Observability.OTLPProtocol)
	}

	exporter := otlptrace.NewUnstarted(client)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("wardbook"),
		)),
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := exporter.Start(ctx); err != nil {
				return err
			}
			otel.SetTracerProvider(provider)
			log.Info("tracing enabled",
				zap.String("endpoint", endpoint),
				zap.String("protocol", cfg.Observability.OTLPProtocol),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	return nil
}
