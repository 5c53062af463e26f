// Package instrumentation provides OpenTelemetry (OTEL) instrumentation for the
// oauth-consumers credential registry.
//
// # Quick Start
//
//	inst, err := instrumentation.New(instrumentation.Config{
//		ServiceName:    "my-app",
//		ServiceVersion: "1.0.0",
//		Enabled:        true,
//		SpanProcessors: []sdktrace.SpanProcessor{sdktrace.NewBatchSpanProcessor(exporter)},
//		MeterProvider:  otel.GetMeterProvider(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Shutdown(context.Background())
//
//	reg, err := consumers.LoadFile(ctx, "consumers.yaml", &consumers.Config{
//		Instrumentation: inst,
//	})
//
// When Enabled is false, no-op providers are used and instrumentation has no
// overhead.
//
// # Available Metrics
//
//   - consumers.registry.loads.total{result} - Registry loads
//   - consumers.registry.load.duration{result} - Load duration in milliseconds
//   - consumers.registry.lookups.total{provider, result} - Credential lookups
//   - consumers.registry.env_overrides.total{field} - Fields replaced from the environment
//   - consumers.registry.secrets.decrypted.total - Encrypted secrets decrypted
//   - consumers.registry.providers - Providers in the loaded registry (gauge)
//
// Misses are recorded with provider="<unknown>" so arbitrary lookup keys
// cannot grow metric cardinality.
//
// # Tracing
//
// A "registry.load" span covers parsing, the environment overlay and secret
// decryption. It carries the source, storage backend and provider count.
//
// # Security Considerations
//
// Client secrets are never recorded in spans, metrics or logs.
package instrumentation
