// Package tracer sets up OpenTelemetry tracing for vectorwire.
//
// NewClient installs a global TracerProvider, exporting over OTLP HTTP when
// Config.EnableExport is set. The client opens one span per search or
// batch call and records errors on it:
//
//	ctx, span := t.StartSpan(ctx, "weaviate.Search")
//	defer span.End()
//	t.SetAttributes(span, map[string]interface{}{"collection": "Article"})
//
// GetCarrier and SetCarrierOnContext move trace context across process
// boundaries as a plain header map.
package tracer
