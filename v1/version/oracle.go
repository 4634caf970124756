package version

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the raw version string from the connected server.
type Fetcher interface {
	FetchVersion(ctx context.Context) (string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

// FetchVersion calls f.
func (f FetcherFunc) FetchVersion(ctx context.Context) (string, error) { return f(ctx) }

// Oracle caches the server version for the life of a connection and
// answers capability checks against it.
//
// The cached value is the only state shared across requests. Reads take a
// read lock; fetches are collapsed with singleflight so concurrent callers
// (first use or forced refresh) share one round trip and observe the same
// result. The last completed fetch is what stays cached.
type Oracle struct {
	fetcher Fetcher

	mu      sync.RWMutex
	current *Version

	group singleflight.Group
}

// NewOracle returns an oracle that fetches through f on first use.
func NewOracle(f Fetcher) *Oracle {
	return &Oracle{fetcher: f}
}

// NewStaticOracle returns an oracle pinned to v. It never fetches unless
// Refresh is called and a fetcher was provided.
func NewStaticOracle(v Version) *Oracle {
	o := &Oracle{}
	o.Set(v)
	return o
}

// Cached returns the cached version without blocking.
func (o *Oracle) Cached() (Version, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.current == nil {
		return Version{}, false
	}
	return *o.current, true
}

// Set overrides the cached version.
func (o *Oracle) Set(v Version) {
	o.mu.Lock()
	o.current = &v
	o.mu.Unlock()
}

// Version returns the cached version, fetching it first if needed.
func (o *Oracle) Version(ctx context.Context) (Version, error) {
	if v, ok := o.Cached(); ok {
		return v, nil
	}
	return o.fetch(ctx)
}

// Refresh re-fetches the version even when one is cached.
func (o *Oracle) Refresh(ctx context.Context) (Version, error) {
	return o.fetch(ctx)
}

// Snapshot returns an immutable view for one compilation.
func (o *Oracle) Snapshot(ctx context.Context) (Snapshot, error) {
	v, err := o.Version(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(v), nil
}

// Check answers a capability question, fetching the version first if needed.
// Failure to fetch is returned as an error; an unsupported feature is not.
func (o *Oracle) Check(ctx context.Context, f Feature) (Check, error) {
	v, err := o.Version(ctx)
	if err != nil {
		return Check{}, err
	}
	return CheckFeature(v, f), nil
}

func (o *Oracle) fetch(ctx context.Context) (Version, error) {
	if o.fetcher == nil {
		if v, ok := o.Cached(); ok {
			return v, nil
		}
		return Version{}, fmt.Errorf("[Weaviate] no version fetcher configured")
	}

	// The flight outlives any single caller; each caller waits on its own ctx.
	flightCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan("version", func() (any, error) {
		raw, err := o.fetcher.FetchVersion(flightCtx)
		if err != nil {
			return nil, fmt.Errorf("[Weaviate] failed to fetch server version: %w", err)
		}
		v, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		o.Set(v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return Version{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Version{}, res.Err
		}
		return res.Val.(Version), nil
	}
}
