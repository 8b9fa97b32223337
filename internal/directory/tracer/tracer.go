// Package tracer provides a lightweight tracing abstraction for the directory.
//
// The directory emits a span around the one-shot people fetch and an event per
// ingestion without importing OpenTelemetry outside this package.
//
// Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks the span as failed.
	// End must be called exactly once.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanDirectoryLoad = "directory.load"
	SpanPeopleFetch   = "directory.people.fetch"
)

// Attribute keys.
const (
	AttrURL           = "http.url"
	AttrStatusCode    = "http.status_code"
	AttrResultCount   = "directory.result_count"
	AttrErrorKind     = "directory.error_kind"
	AttrRecordsTotal  = "directory.records"
	AttrFetchDuration = "directory.fetch_duration_ms"
)

// Event names.
const (
	EventIngested = "directory.ingested"
)
