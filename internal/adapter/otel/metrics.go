package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "basenames"

// Cascade stage labels.
const (
	StageAPI      = "api"
	StageContract = "contract"
	StageRegistry = "registry"
)

// Stage outcome labels.
const (
	OutcomeAnswered      = "answered"
	OutcomeFailed        = "failed"
	OutcomePriceFallback = "price_fallback"
)

// Metrics holds all basenames metric instruments.
type Metrics struct {
	StageOutcomes      metric.Int64Counter
	Resolutions        metric.Int64Counter
	ResolveDuration    metric.Float64Histogram
	Registrations      metric.Int64Counter
	CollectionsCreated metric.Int64Counter
	TokensMinted       metric.Int64Counter
}

// NewMetrics creates all instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(otel.GetMeterProvider())
}

// NewMetricsFrom creates all instruments on mp.
func NewMetricsFrom(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	m.StageOutcomes, err = meter.Int64Counter("basenames.availability.stage",
		metric.WithDescription("Availability cascade stage outcomes"))
	if err != nil {
		return nil, err
	}

	m.Resolutions, err = meter.Int64Counter("basenames.availability.resolutions",
		metric.WithDescription("Availability resolutions by verdict"))
	if err != nil {
		return nil, err
	}

	m.ResolveDuration, err = meter.Float64Histogram("basenames.availability.duration_seconds",
		metric.WithDescription("Availability resolution latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Registrations, err = meter.Int64Counter("basenames.registrations",
		metric.WithDescription("Registration submissions by result"))
	if err != nil {
		return nil, err
	}

	m.CollectionsCreated, err = meter.Int64Counter("basenames.collections.created",
		metric.WithDescription("Demo NFT collections created"))
	if err != nil {
		return nil, err
	}

	m.TokensMinted, err = meter.Int64Counter("basenames.collections.minted",
		metric.WithDescription("Demo NFT tokens minted"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordStage counts one cascade stage outcome. Safe on a nil receiver.
func (m *Metrics) RecordStage(ctx context.Context, stage, outcome string) {
	if m == nil {
		return
	}
	m.StageOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
}

// RecordResolution counts one finished resolution and its latency.
// Safe on a nil receiver.
func (m *Metrics) RecordResolution(ctx context.Context, verdict string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("verdict", verdict))
	m.Resolutions.Add(ctx, 1, attrs)
	m.ResolveDuration.Record(ctx, seconds, attrs)
}

// RecordRegistration counts one registration attempt by result.
// Safe on a nil receiver.
func (m *Metrics) RecordRegistration(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.Registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
