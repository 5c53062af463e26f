package instrumentation

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common span attribute keys
//
// SECURITY WARNING: Never put client secrets into spans or metrics. Only
// record metadata such as provider names, sources, and result codes.
const (
	AttrSource         = "consumers.source"
	AttrProviderCount  = "consumers.provider_count"
	AttrStorageBackend = "consumers.storage_backend"
	AttrResult         = "consumers.result"
	AttrErrorCode      = "consumers.error_code"
)

// RecordError records an error on a span with proper status codes (nil-safe)
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks a span as successful (nil-safe)
func SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// SetSpanAttributes sets attributes on a span (nil-safe)
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span != nil {
		span.SetAttributes(attrs...)
	}
}

// AddLoadAttributes adds the document source to a load span (nil-safe)
func AddLoadAttributes(span trace.Span, source string) {
	if source != "" {
		SetSpanAttributes(span, attribute.String(AttrSource, source))
	}
}

// AddRegistryAttributes describes a loaded registry on a span (nil-safe)
func AddRegistryAttributes(span trace.Span, storageBackend string, providerCount int) {
	SetSpanAttributes(span,
		attribute.String(AttrStorageBackend, storageBackend),
		attribute.Int(AttrProviderCount, providerCount),
	)
}

// AddResultAttributes records the outcome of an operation on a span (nil-safe).
// errorCode is omitted when empty.
func AddResultAttributes(span trace.Span, result, errorCode string) {
	SetSpanAttributes(span, attribute.String(AttrResult, result))
	if errorCode != "" {
		SetSpanAttributes(span, attribute.String(AttrErrorCode, errorCode))
	}
}
