package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Lookup results recorded on consumers.registry.lookups.total
const (
	LookupResultHit  = "hit"
	LookupResultMiss = "miss"

	// unknownProviderLabel replaces provider names on misses so that
	// arbitrary lookup keys do not create new series.
	unknownProviderLabel = "<unknown>"
)

// Metrics holds all metric instruments for the credential registry
type Metrics struct {
	LoadsTotal            metric.Int64Counter
	LoadDuration          metric.Float64Histogram
	LookupsTotal          metric.Int64Counter
	EnvOverridesTotal     metric.Int64Counter
	SecretsDecryptedTotal metric.Int64Counter
	ProvidersCount        metric.Int64ObservableGauge
}

// newMetrics creates and registers all metric instruments
func newMetrics(inst *Instrumentation) (*Metrics, error) {
	meter := inst.Meter("registry")
	m := &Metrics{}

	var err error
	m.LoadsTotal, err = meter.Int64Counter(
		"consumers.registry.loads.total",
		metric.WithDescription("Number of credential registry loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.loads.total counter: %w", err)
	}

	m.LoadDuration, err = meter.Float64Histogram(
		"consumers.registry.load.duration",
		metric.WithDescription("Credential registry load duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.load.duration histogram: %w", err)
	}

	m.LookupsTotal, err = meter.Int64Counter(
		"consumers.registry.lookups.total",
		metric.WithDescription("Number of provider credential lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.lookups.total counter: %w", err)
	}

	m.EnvOverridesTotal, err = meter.Int64Counter(
		"consumers.registry.env_overrides.total",
		metric.WithDescription("Number of configuration fields replaced from the environment"),
		metric.WithUnit("{override}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.env_overrides.total counter: %w", err)
	}

	m.SecretsDecryptedTotal, err = meter.Int64Counter(
		"consumers.registry.secrets.decrypted.total",
		metric.WithDescription("Number of encrypted client secrets decrypted"),
		metric.WithUnit("{secret}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.secrets.decrypted.total counter: %w", err)
	}

	m.ProvidersCount, err = meter.Int64ObservableGauge(
		"consumers.registry.providers",
		metric.WithDescription("Number of providers in the loaded registry"),
		metric.WithUnit("{provider}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry.providers gauge: %w", err)
	}

	return m, nil
}

// RecordLoad records a registry load with its result ("success" or an error code)
func (m *Metrics) RecordLoad(ctx context.Context, result string, durationMs float64) {
	m.LoadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
	m.LoadDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("result", result),
	))
}

// RecordLookup records a provider lookup
func (m *Metrics) RecordLookup(ctx context.Context, provider, result string) {
	if result != LookupResultHit {
		provider = unknownProviderLabel
	}
	m.LookupsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("result", result),
	))
}

// RecordEnvOverride records a field replaced from the environment
func (m *Metrics) RecordEnvOverride(ctx context.Context, field string) {
	m.EnvOverridesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("field", field),
	))
}

// RecordSecretDecrypted records a decrypted client secret
func (m *Metrics) RecordSecretDecrypted(ctx context.Context) {
	m.SecretsDecryptedTotal.Add(ctx, 1)
}
