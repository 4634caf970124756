// Package metrics exposes the vectorwire client metrics through an
// isolated Prometheus registry.
//
// Collectors, all prefixed with Config.Namespace ("vectorwire" by default):
//
//	compiled_requests_total{modality}
//	rejected_requests_total{feature}
//	transport_duration_seconds{method,status}
//	batch_objects_total
//
// The client depends on the Recorder interface; pass Nop{} to disable
// metrics entirely.
package metrics
