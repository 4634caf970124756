package metrics

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config controls the Prometheus registry and the /metrics server.
type Config struct {
	// Address is where the /metrics HTTP server listens. Empty disables
	// the server; the registry still works.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every client metric. Defaults to "vectorwire".
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`
}

// DefaultConfig serves on DefaultMetricsAddress with default collectors.
func DefaultConfig() Config {
	return Config{
		Address:                 DefaultMetricsAddress,
		EnableDefaultCollectors: true,
		Namespace:               "vectorwire",
	}
}
