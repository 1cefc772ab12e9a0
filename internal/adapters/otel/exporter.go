package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/agentcockpit/cockpit/internal/ports"
)

const (
	serviceName    = "cockpit"
	serviceVersion = "1.0.0"
)

// Exporter exports per-exchange usage metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	meter         metric.Meter
	requestsTotal metric.Int64Counter
	tokensTotal   metric.Int64Counter
	costTotal     metric.Float64Counter
	durationHist  metric.Float64Histogram
	errorsTotal   metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestsTotal, err := meter.Int64Counter(
		"cockpit_agent_requests_total",
		metric.WithDescription("Total agent run requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}

	tokensTotal, err := meter.Int64Counter(
		"cockpit_agent_tokens_total",
		metric.WithDescription("Total tokens consumed by agent runs"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tokens counter: %w", err)
	}

	costTotal, err := meter.Float64Counter(
		"cockpit_agent_cost_usd",
		metric.WithDescription("Total estimated cost in USD"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cost counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"cockpit_agent_response_seconds",
		metric.WithDescription("Agent response time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	errorsTotal, err := meter.Int64Counter(
		"cockpit_agent_errors_total",
		metric.WithDescription("Total failed agent runs"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	return &Exporter{
		provider:      provider,
		meter:         meter,
		requestsTotal: requestsTotal,
		tokensTotal:   tokensTotal,
		costTotal:     costTotal,
		durationHist:  durationHist,
		errorsTotal:   errorsTotal,
	}, nil
}

// ExportUsage exports the metrics of one completed agent exchange.
func (e *Exporter) ExportUsage(ctx context.Context, m *ports.UsageMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("provider", m.Provider),
		attribute.String("model", m.Model),
		attribute.String("agent_id", m.AgentID),
	)

	e.requestsTotal.Add(ctx, 1, opt)
	e.tokensTotal.Add(ctx, m.PromptTokens+m.CompletionTokens, opt)
	e.costTotal.Add(ctx, m.CostUSD, opt)
	e.durationHist.Record(ctx, float64(m.DurationMS)/1000, opt)
	if m.IsError {
		e.errorsTotal.Add(ctx, 1, opt)
	}

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
