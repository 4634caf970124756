// Package logger is the structured logger used by vectorwire.
//
// It wraps zap with a small API that takes an optional error and any
// number of field maps:
//
//	log, err := logger.NewLoggerClient(logger.Config{Level: logger.Debug, ServiceName: "search"})
//	log.Warn("request rejected", err, map[string]interface{}{"feature": "named vectors"})
//
// With EnableTracing set, the *WithContext variants add the trace_id and
// span_id of the OpenTelemetry span carried by the context, so log lines
// can be joined with traces.
//
// In an fx application, supply a Config and include FXModule.
package logger
