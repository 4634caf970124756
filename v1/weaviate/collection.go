package weaviate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/vectorwire/v1/batch"
	"github.com/Aleph-Alpha/vectorwire/v1/query"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// modalityBatch labels batch calls in logs next to the search modalities.
const modalityBatch query.Modality = "batch"

// CollectionOption configures a Collection handle.
type CollectionOption func(*Collection)

// WithTenant scopes every call of the handle to tenant.
func WithTenant(tenant string) CollectionOption {
	return func(c *Collection) { c.tenant = tenant }
}

// WithConsistencyLevel sets the replica consistency for every call.
func WithConsistencyLevel(level wire.ConsistencyLevel) CollectionOption {
	return func(c *Collection) { c.consistency = level }
}

// Collection is a lightweight handle on one collection. It holds no state
// besides its options and is safe for concurrent use.
type Collection struct {
	client      *Client
	name        string
	tenant      string
	consistency wire.ConsistencyLevel
}

// Collection returns a handle on the named collection.
func (c *Client) Collection(name string, opts ...CollectionOption) *Collection {
	col := &Collection{client: c, name: name}
	for _, opt := range opts {
		opt(col)
	}
	return col
}

// Name returns the collection name.
func (col *Collection) Name() string { return col.name }

// Fetch lists objects without ranking.
func (col *Collection) Fetch(ctx context.Context, o query.FetchOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityFetch, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.Fetch(o)
	})
}

// BM25 runs a keyword search.
func (col *Collection) BM25(ctx context.Context, o query.BM25Options) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityBM25, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.BM25(o)
	})
}

// Hybrid runs a fused keyword and vector search.
func (col *Collection) Hybrid(ctx context.Context, o query.HybridOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityHybrid, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.Hybrid(o)
	})
}

// NearVector runs a vector similarity search.
func (col *Collection) NearVector(ctx context.Context, o query.NearVectorOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityNearVector, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.NearVector(o)
	})
}

// NearText runs a search vectorized from text on the server.
func (col *Collection) NearText(ctx context.Context, o query.NearTextOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityNearText, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.NearText(o)
	})
}

// NearObject searches for objects similar to an existing one.
func (col *Collection) NearObject(ctx context.Context, o query.NearObjectOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityNearObject, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.NearObject(o)
	})
}

// NearMedia searches with an image, audio, video, thermal, depth or IMU
// payload.
func (col *Collection) NearMedia(ctx context.Context, o query.NearMediaOptions) (*wire.SearchReply, error) {
	return col.search(ctx, query.ModalityNearMedia, func(q *query.Compiler) (*wire.SearchRequest, error) {
		return q.NearMedia(o)
	})
}

func (col *Collection) compiler(snap version.Snapshot) *query.Compiler {
	return query.NewCompiler(col.name, snap,
		query.WithTenant(col.tenant),
		query.WithConsistencyLevel(col.consistency),
	)
}

// search takes one version snapshot, compiles against it and sends the
// request. Nothing reaches the transport if compilation fails.
func (col *Collection) search(
	ctx context.Context,
	modality query.Modality,
	compile func(*query.Compiler) (*wire.SearchRequest, error),
) (*wire.SearchReply, error) {
	c := col.client
	ctx, span := c.startSpan(ctx, "weaviate.Search")
	defer span.End()

	snap, err := c.snapshot(ctx)
	if err != nil {
		c.recordError(span, err)
		c.log.ErrorWithContext(ctx, "Weaviate version lookup failed", err)
		return nil, err
	}
	c.setAttributes(span, map[string]interface{}{
		"collection":     col.name,
		"modality":       string(modality),
		"server_version": snap.Version().String(),
	})

	req, err := compile(col.compiler(snap))
	if err != nil {
		c.recordError(span, err)
		c.rejected(ctx, col.name, modality, err)
		return nil, err
	}
	c.metrics.IncCompiled(string(modality))

	reply, err := col.sendSearch(ctx, req)
	if err != nil {
		c.recordError(span, err)
		c.log.ErrorWithContext(ctx, "Weaviate search failed", err, map[string]interface{}{
			"collection": col.name,
			"modality":   string(modality),
		})
		return nil, fmt.Errorf("[Weaviate] %s search on %s failed: %w", modality, col.name, err)
	}
	return reply, nil
}

func (col *Collection) sendSearch(ctx context.Context, req *wire.SearchRequest) (reply *wire.SearchReply, err error) {
	ctx, cancel := context.WithTimeout(ctx, col.client.cfg.Timeout)
	defer cancel()

	start := time.Now()
	defer func() { col.client.metrics.ObserveTransport("Search", start, err) }()
	return col.client.transport.Search(ctx, req)
}

// ── Writes ───────────────────────────────────────────────────────

// InsertMany encodes objs for this collection and sends them in one batch.
// Objects without a Collection or Tenant inherit the handle's. Either all
// objects are encoded and sent, or an error is returned and nothing is
// sent. Per-object server failures are reported in the reply.
func (col *Collection) InsertMany(ctx context.Context, objs []batch.Object) (*wire.BatchObjectsReply, error) {
	c := col.client
	ctx, span := c.startSpan(ctx, "weaviate.BatchObjects")
	defer span.End()

	snap, err := c.snapshot(ctx)
	if err != nil {
		c.recordError(span, err)
		c.log.ErrorWithContext(ctx, "Weaviate version lookup failed", err)
		return nil, err
	}
	c.setAttributes(span, map[string]interface{}{
		"collection":     col.name,
		"modality":       string(modalityBatch),
		"server_version": snap.Version().String(),
		"objects":        len(objs),
	})

	scoped := make([]batch.Object, len(objs))
	for i, o := range objs {
		if o.Collection == "" {
			o.Collection = col.name
		}
		if o.Tenant == "" {
			o.Tenant = col.tenant
		}
		scoped[i] = o
	}

	enc := batch.NewEncoder(snap, batch.WithConcurrency(c.cfg.BatchConcurrency))
	req, err := enc.Request(ctx, scoped, col.consistency)
	if err != nil {
		c.recordError(span, err)
		c.rejected(ctx, col.name, modalityBatch, err)
		return nil, err
	}

	reply, err := col.sendBatch(ctx, req)
	if err != nil {
		c.recordError(span, err)
		c.log.ErrorWithContext(ctx, "Weaviate batch failed", err, map[string]interface{}{
			"collection": col.name,
			"objects":    len(req.Objects),
		})
		return nil, fmt.Errorf("[Weaviate] batch insert into %s failed: %w", col.name, err)
	}
	c.metrics.AddBatchObjects(len(req.Objects))
	c.log.DebugWithContext(ctx, "Weaviate batch sent", nil, map[string]interface{}{
		"collection": col.name,
		"objects":    len(req.Objects),
		"errors":     len(reply.Errors),
		"took":       reply.Took,
	})
	return reply, nil
}

// Insert sends a single object and returns its ID, generating one when
// obj.ID is empty.
func (col *Collection) Insert(ctx context.Context, obj batch.Object) (string, error) {
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	reply, err := col.InsertMany(ctx, []batch.Object{obj})
	if err != nil {
		return "", err
	}
	if len(reply.Errors) > 0 {
		return "", fmt.Errorf("[Weaviate] insert of %s into %s failed: %s", obj.ID, col.name, reply.Errors[0].Error)
	}
	return obj.ID, nil
}

func (col *Collection) sendBatch(ctx context.Context, req *wire.BatchObjectsRequest) (reply *wire.BatchObjectsReply, err error) {
	ctx, cancel := context.WithTimeout(ctx, col.client.cfg.Timeout)
	defer cancel()

	start := time.Now()
	defer func() { col.client.metrics.ObserveTransport("BatchObjects", start, err) }()
	return col.client.transport.BatchObjects(ctx, req)
}
