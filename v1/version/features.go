package version

import (
	"fmt"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
)

// Feature identifies a server capability with a minimum version.
type Feature int

const (
	// GRPC is the gRPC search and batch API itself.
	GRPC Feature = iota
	// NamedVectors allows more than one vector per object, addressed by name.
	NamedVectors
	// GroupByBM25Hybrid allows group-by on keyword and hybrid searches.
	GroupByBM25Hybrid
	// HybridNearSubSearch allows near-text / near-vector sub-searches inside hybrid.
	HybridNearSubSearch
	// MultiTargetVectorSearch allows one query across several named vectors.
	MultiTargetVectorSearch
	// VectorsForTargets is the per-target list encoding that allows more than
	// one query vector for the same target.
	VectorsForTargets
	// MultiWeightsPerTarget allows a list of weights for a single target.
	MultiWeightsPerTarget
	// Rerank allows a rerank overlay on any search.
	Rerank
	// Generative allows a generative overlay on any search.
	Generative
	// API125 tells the server the client understands the 1.25 reply shape.
	API125
	// API127 tells the server the client understands the 1.27 reply shape.
	API127
	// BM25SearchOperator allows And/Or token matching on keyword searches.
	BM25SearchOperator

	featureCount
)

// Features lists every known feature in declaration order.
func Features() []Feature {
	out := make([]Feature, 0, int(featureCount))
	for f := Feature(0); f < featureCount; f++ {
		out = append(out, f)
	}
	return out
}

type featureSpec struct {
	name string
	min  Version
}

var featureTable = map[Feature]featureSpec{
	GRPC:                    {"The gRPC API", New(1, 23, 7)},
	NamedVectors:            {"Named vectors", New(1, 24, 0)},
	GroupByBM25Hybrid:       {"Group-by for bm25 and hybrid queries", New(1, 25, 0)},
	HybridNearSubSearch:     {"Near-text and near-vector sub-searches in hybrid queries", New(1, 25, 0)},
	MultiTargetVectorSearch: {"Multi-target vector search", New(1, 26, 0)},
	VectorsForTargets:       {"Multiple vectors per target", New(1, 27, 0)},
	MultiWeightsPerTarget:   {"Multiple weights per target", New(1, 27, 0)},
	Rerank:                  {"Reranking", New(1, 23, 7)},
	Generative:              {"Generative search", New(1, 23, 7)},
	API125:                  {"The 1.25 search reply shape", New(1, 25, 0)},
	API127:                  {"The 1.27 search reply shape", New(1, 27, 0)},
	BM25SearchOperator:      {"The bm25 search operator", New(1, 31, 0)},
}

// Name returns the human-readable feature name.
func (f Feature) Name() string {
	if spec, ok := featureTable[f]; ok {
		return spec.name
	}
	return fmt.Sprintf("feature(%d)", int(f))
}

// MinVersion returns the lowest server version supporting f.
func (f Feature) MinVersion() Version {
	return featureTable[f].min
}

func (f Feature) String() string { return f.Name() }

// Check is the answer to "does the server support f". It is a pure
// function of the version it was computed against.
type Check struct {
	Feature    Feature
	Supports   bool
	Message    string
	Version    Version
	MinVersion Version
}

// Err returns nil when supported, otherwise an *errs.UnsupportedFeatureError.
func (c Check) Err() error {
	if c.Supports {
		return nil
	}
	return &errs.UnsupportedFeatureError{
		Feature:       c.Feature.Name(),
		MinVersion:    c.MinVersion.String(),
		ServerVersion: c.Version.String(),
		Message:       c.Message,
	}
}

// CheckFeature computes the Check for f against v.
func CheckFeature(v Version, f Feature) Check {
	spec, ok := featureTable[f]
	if !ok {
		return Check{
			Feature: f,
			Version: v,
			Message: fmt.Sprintf("%s is unknown to this client", f.Name()),
		}
	}

	c := Check{
		Feature:    f,
		Version:    v,
		MinVersion: spec.min,
		Supports:   v.Compare(spec.min) >= 0,
	}
	if !c.Supports {
		c.Message = fmt.Sprintf(
			"%s is not supported by Weaviate server version %s. Please upgrade to at least %s.",
			spec.name, v, spec.min)
	}
	return c
}

// Snapshot is an immutable view of the server version used for one
// compilation. It never fetches.
type Snapshot struct {
	version Version
}

// NewSnapshot wraps v.
func NewSnapshot(v Version) Snapshot {
	return Snapshot{version: v}
}

// Version returns the version the snapshot was taken at.
func (s Snapshot) Version() Version { return s.version }

// Check computes the capability check for f.
func (s Snapshot) Check(f Feature) Check {
	return CheckFeature(s.version, f)
}

// Supports is Check(f).Supports.
func (s Snapshot) Supports(f Feature) bool {
	return s.Check(f).Supports
}

// Require returns the unsupported-feature error for f, or nil.
func (s Snapshot) Require(f Feature) error {
	return s.Check(f).Err()
}
