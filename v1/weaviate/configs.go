package weaviate

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds connection and behavior settings for the Weaviate client.
//
// Example (builder style):
//
//	cfg := weaviate.FromEndpoint("weaviate.internal").
//	    WithAPIKey(os.Getenv("WEAVIATE_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Weaviate server, e.g. "localhost".
	Host string `yaml:"host" env:"WEAVIATE_HOST" mapstructure:"host"`

	// REST port, used to read the server version from /v1/meta.
	HTTPPort int `yaml:"http_port" env:"WEAVIATE_HTTP_PORT" mapstructure:"http_port"`

	// gRPC port used for search and batch calls.
	GRPCPort int `yaml:"grpc_port" env:"WEAVIATE_GRPC_PORT" mapstructure:"grpc_port"`

	// Secure switches both HTTP and gRPC to TLS.
	Secure bool `yaml:"secure" env:"WEAVIATE_SECURE" mapstructure:"secure"`

	// Optional API key, sent as a bearer token.
	APIKey string `yaml:"api_key" env:"WEAVIATE_API_KEY" mapstructure:"api_key"`

	// Extra metadata sent with every gRPC call, e.g. module API keys.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Maximum duration of one search or batch call.
	Timeout time.Duration `yaml:"timeout" env:"WEAVIATE_TIMEOUT" mapstructure:"timeout"`

	// Maximum duration of the version lookup.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"WEAVIATE_CONNECT_TIMEOUT" mapstructure:"connect_timeout"`

	// Number of objects a batch encodes in parallel.
	BatchConcurrency int `yaml:"batch_concurrency" env:"WEAVIATE_BATCH_CONCURRENCY" mapstructure:"batch_concurrency"`

	// VersionOverride pins the server version (e.g. "1.25.3") instead of
	// asking the server.
	VersionOverride string `yaml:"version_override" env:"WEAVIATE_VERSION_OVERRIDE" mapstructure:"version_override"`

	// CheckVersionOnStart reads the server version when the fx app starts,
	// so an unreachable server fails startup rather than the first query.
	CheckVersionOnStart bool `yaml:"check_version_on_start" env:"WEAVIATE_CHECK_VERSION_ON_START" mapstructure:"check_version_on_start"`
}

// DefaultConfig provides defaults for a local, unauthenticated server.
func DefaultConfig() *Config {
	return &Config{
		Host:                "localhost",
		HTTPPort:            8080,
		GRPCPort:            50051,
		Timeout:             30 * time.Second,
		ConnectTimeout:      10 * time.Second,
		BatchConcurrency:    4,
		CheckVersionOnStart: true,
	}
}

// FromEndpoint returns a default config pre-filled with host.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Host = host
	return cfg
}

// Builder-style helpers
func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

func (c *Config) WithGRPCPort(port int) *Config {
	c.GRPCPort = port
	return c
}

func (c *Config) WithHTTPPort(port int) *Config {
	c.HTTPPort = port
	return c
}

func (c *Config) WithBatchConcurrency(n int) *Config {
	c.BatchConcurrency = n
	return c
}

func (c *Config) WithVersionOverride(v string) *Config {
	c.VersionOverride = v
	return c
}

func (c *Config) WithSecure(enabled bool) *Config {
	c.Secure = enabled
	return c
}

func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("http_port %d is out of range", c.HTTPPort))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("grpc_port %d is out of range", c.GRPCPort))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect_timeout must be positive, got %s", c.ConnectTimeout))
	}
	if c.BatchConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("batch_concurrency must be positive, got %d", c.BatchConcurrency))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("[Weaviate] invalid config: %w", err)
	}
	return nil
}

// HTTPBaseURL is the REST endpoint, e.g. "http://localhost:8080".
func (c *Config) HTTPBaseURL() string {
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.HTTPPort))
}

// GRPCAddress is the host:port the gRPC connection dials.
func (c *Config) GRPCAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.GRPCPort))
}

// Redacted renders c as YAML with secrets masked, for logs.
func (c *Config) Redacted() string {
	cp := *c
	if cp.APIKey != "" {
		cp.APIKey = "***"
	}
	if len(cp.Headers) > 0 {
		cp.Headers = make(map[string]string, len(c.Headers))
		for k := range c.Headers {
			cp.Headers[k] = "***"
		}
	}
	out, err := yaml.Marshal(&cp)
	if err != nil {
		return fmt.Sprintf("<unrenderable config: %v>", err)
	}
	return string(out)
}
