package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is the deployment environment resource attribute.
	AppEnv string `yaml:"app_env" env:"TRACER_APP_ENV"`

	// EnableExport sends spans to an OTLP HTTP collector. Without it spans
	// are created but never leave the process.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector host:port. Empty uses the OTLP exporter
	// defaults and the OTEL_EXPORTER_OTLP_* environment.
	Endpoint string `yaml:"endpoint" env:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" env:"TRACER_INSECURE"`
}
