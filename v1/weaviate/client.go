package weaviate

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"google.golang.org/grpc"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/logger"
	"github.com/Aleph-Alpha/vectorwire/v1/metrics"
	"github.com/Aleph-Alpha/vectorwire/v1/query"
	"github.com/Aleph-Alpha/vectorwire/v1/tracer"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
)

//
// ──────────────────────────────────────────────────────────────
//   WEAVIATE CLIENT
// ──────────────────────────────────────────────────────────────
//
// The client ties the version oracle, the request compilers and the
// transport together. Every call takes one version snapshot, compiles
// against it, and only then touches the network. A request the server
// cannot serve is rejected before any transport call.
//

// ClientParams groups the client's dependencies for fx. Only Config is
// required.
type ClientParams struct {
	fx.In

	Config *Config

	Logger  *logger.Logger   `optional:"true"`
	Metrics metrics.Recorder `optional:"true"`
	Tracer  *tracer.Tracer   `optional:"true"`

	// Transport replaces the gRPC transport, mostly for tests.
	Transport Transport `optional:"true"`
	// Fetcher replaces the /v1/meta version lookup.
	Fetcher version.Fetcher `optional:"true"`
}

// Client is a connection to one Weaviate server.
type Client struct {
	cfg       *Config
	oracle    *version.Oracle
	transport Transport
	conn      *grpc.ClientConn

	log     *logger.Logger
	metrics metrics.Recorder
	tracer  *tracer.Tracer
}

// NewClient validates the config and builds a client. It does not contact
// the server; the version is read on first use or on fx start.
func NewClient(p ClientParams) (*Client, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("[Weaviate] config is required")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       p.Config,
		transport: p.Transport,
		log:       p.Logger,
		metrics:   p.Metrics,
		tracer:    p.Tracer,
	}
	if c.log == nil {
		c.log = logger.NewNop()
	}
	if c.metrics == nil {
		c.metrics = metrics.Nop{}
	}

	oracle, err := newOracle(p.Config, p.Fetcher)
	if err != nil {
		return nil, err
	}
	c.oracle = oracle

	if c.transport == nil {
		conn, err := Dial(p.Config)
		if err != nil {
			return nil, err
		}
		c.conn = conn
		c.transport = NewGRPCTransport(conn, p.Config.APIKey, p.Config.Headers, p.Tracer)
	}

	c.log.Info("Weaviate client created", nil, map[string]interface{}{
		"grpc_address": p.Config.GRPCAddress(),
		"http_url":     p.Config.HTTPBaseURL(),
	})
	c.log.Debug("Weaviate client config", nil, map[string]interface{}{"config": p.Config.Redacted()})
	return c, nil
}

func newOracle(cfg *Config, f version.Fetcher) (*version.Oracle, error) {
	if cfg.VersionOverride != "" {
		v, err := version.Parse(cfg.VersionOverride)
		if err != nil {
			return nil, fmt.Errorf("[Weaviate] invalid version override: %w", err)
		}
		return version.NewStaticOracle(v), nil
	}
	if f == nil {
		f = version.NewHTTPFetcher(cfg.HTTPBaseURL(), cfg.APIKey, cfg.ConnectTimeout)
	}
	return version.NewOracle(f), nil
}

// ServerVersion returns the cached server version, fetching it once if
// needed.
func (c *Client) ServerVersion(ctx context.Context) (version.Version, error) {
	v, err := c.oracle.Version(ctx)
	if err != nil {
		return version.Version{}, fmt.Errorf("[Weaviate] failed to read server version: %w", err)
	}
	return v, nil
}

// RefreshVersion re-reads the server version, e.g. after an upgrade.
// Concurrent refreshes share one fetch.
func (c *Client) RefreshVersion(ctx context.Context) (version.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	v, err := c.oracle.Refresh(ctx)
	if err != nil {
		c.log.ErrorWithContext(ctx, "Weaviate version refresh failed", err)
		return version.Version{}, fmt.Errorf("[Weaviate] failed to refresh server version: %w", err)
	}
	c.log.DebugWithContext(ctx, "Weaviate version refreshed", nil, map[string]interface{}{"version": v.String()})
	return v, nil
}

// Supports reports whether the server supports f, with the upgrade hint
// when it does not.
func (c *Client) Supports(ctx context.Context, f version.Feature) (version.Check, error) {
	check, err := c.oracle.Check(ctx, f)
	if err != nil {
		return version.Check{}, fmt.Errorf("[Weaviate] failed to read server version: %w", err)
	}
	return check, nil
}

// Close releases the gRPC connection, if the client opened one.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	c.log.Info("Closing Weaviate client", nil)
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("[Weaviate] failed to close gRPC connection: %w", err)
	}
	return nil
}

func (c *Client) snapshot(ctx context.Context) (version.Snapshot, error) {
	snap, err := c.oracle.Snapshot(ctx)
	if err != nil {
		return version.Snapshot{}, fmt.Errorf("[Weaviate] failed to read server version: %w", err)
	}
	return snap, nil
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if c.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return c.tracer.StartSpan(ctx, name)
}

func (c *Client) setAttributes(span trace.Span, attrs map[string]interface{}) {
	if c.tracer != nil {
		c.tracer.SetAttributes(span, attrs)
	}
}

func (c *Client) recordError(span trace.Span, err error) {
	if c.tracer != nil {
		c.tracer.RecordErrorOnSpan(span, err)
	}
}

// rejected reports a compile failure. Unsupported features are counted
// and logged as warnings; input errors only at debug level.
func (c *Client) rejected(ctx context.Context, collection string, modality query.Modality, err error) {
	if uf, ok := errs.AsUnsupportedFeature(err); ok {
		c.metrics.IncRejected(uf.Feature)
		c.log.WarnWithContext(ctx, "Weaviate request rejected by version check", nil, map[string]interface{}{
			"collection":     collection,
			"modality":       string(modality),
			"feature":        uf.Feature,
			"min_version":    uf.MinVersion,
			"server_version": uf.ServerVersion,
		})
		return
	}
	c.log.DebugWithContext(ctx, "Weaviate request rejected", err, map[string]interface{}{
		"collection": collection,
		"modality":   string(modality),
	})
}
