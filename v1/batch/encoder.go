package batch

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"runtime"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Encoder turns Objects into wire.BatchObject messages for one server
// version.
type Encoder struct {
	snapshot    version.Snapshot
	concurrency int
	newID       func() string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithConcurrency bounds the number of objects EncodeAll encodes in
// parallel. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Encoder) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithIDGenerator replaces the UUID v4 generator used for objects without
// an ID.
func WithIDGenerator(f func() string) Option {
	return func(e *Encoder) {
		if f != nil {
			e.newID = f
		}
	}
}

// NewEncoder returns an Encoder bound to snapshot.
func NewEncoder(snapshot version.Snapshot, opts ...Option) *Encoder {
	e := &Encoder{
		snapshot:    snapshot,
		concurrency: runtime.GOMAXPROCS(0),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode encodes a single object.
func (e *Encoder) Encode(obj Object) (*wire.BatchObject, error) {
	if err := e.snapshot.Require(version.GRPC); err != nil {
		return nil, err
	}
	if obj.Collection == "" {
		return nil, errs.Input("collection", "collection name is empty")
	}

	id := obj.ID
	if id == "" {
		id = e.newID()
	}
	if err := uuid.Validate(id); err != nil {
		return nil, errs.Input("id", "%q is not a valid uuid", id)
	}

	props, err := mergeReferences(obj.Properties, obj.References)
	if err != nil {
		return nil, err
	}
	b, err := classify("properties", props, true)
	if err != nil {
		return nil, err
	}

	out := &wire.BatchObject{
		UUID:       id,
		Collection: obj.Collection,
		Tenant:     obj.Tenant,
		Properties: b.properties(),
	}
	if err := e.encodeVectors(obj, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Encoder) encodeVectors(obj Object, out *wire.BatchObject) error {
	switch {
	case obj.Vector != nil && obj.Vectors != nil:
		return errs.Input("vector", "set either a default vector or named vectors, not both")
	case obj.Vector != nil:
		if len(obj.Vector) == 0 {
			return errs.Input("vector", "vector is empty")
		}
		out.VectorBytes = wire.PackFloat32(obj.Vector)
	case len(obj.Vectors) > 0:
		if err := e.snapshot.Require(version.NamedVectors); err != nil {
			return err
		}
		for _, name := range slices.Sorted(maps.Keys(obj.Vectors)) {
			v := obj.Vectors[name]
			if name == "" {
				return errs.Input("vectors", "vector name is empty")
			}
			if len(v) == 0 {
				return errs.Input("vectors."+name, "vector is empty")
			}
			out.Vectors = append(out.Vectors, &wire.Vectors{Name: name, VectorBytes: wire.PackFloat32(v)})
		}
	}
	return nil
}

// mergeReferences returns props with refs added. A name present in both
// is an input error.
func mergeReferences(props map[string]any, refs map[string]Reference) (map[string]any, error) {
	if len(refs) == 0 {
		return props, nil
	}
	merged := make(map[string]any, len(props)+len(refs))
	maps.Copy(merged, props)
	for name, ref := range refs {
		if _, dup := merged[name]; dup {
			return nil, errs.Input("references."+name, "name is also used by a property")
		}
		if ref == nil {
			return nil, errs.Input("references."+name, "reference is nil")
		}
		merged[name] = ref
	}
	return merged, nil
}

// Objects encodes objs lazily, one at a time, in input order. Iteration
// stops at the first error or when ctx is done.
func (e *Encoder) Objects(ctx context.Context, objs []Object) iter.Seq2[*wire.BatchObject, error] {
	return func(yield func(*wire.BatchObject, error) bool) {
		for i, obj := range objs {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			out, err := e.Encode(obj)
			if err != nil {
				yield(nil, fmt.Errorf("object %d: %w", i, err))
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// EncodeAll encodes objs concurrently and returns the messages in input
// order. Either every object is encoded or an error is returned.
func (e *Encoder) EncodeAll(ctx context.Context, objs []Object) ([]*wire.BatchObject, error) {
	out := make([]*wire.BatchObject, len(objs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, obj := range objs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			encoded, err := e.Encode(obj)
			if err != nil {
				return fmt.Errorf("object %d: %w", i, err)
			}
			out[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Request encodes objs into one batch request.
func (e *Encoder) Request(ctx context.Context, objs []Object, consistency wire.ConsistencyLevel) (*wire.BatchObjectsRequest, error) {
	if len(objs) == 0 {
		return nil, errs.Input("objects", "batch is empty")
	}
	encoded, err := e.EncodeAll(ctx, objs)
	if err != nil {
		return nil, err
	}
	req := &wire.BatchObjectsRequest{Objects: encoded}
	if consistency != wire.ConsistencyLevelUnspecified {
		req.ConsistencyLevel = &consistency
	}
	return req, nil
}
