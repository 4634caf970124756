package query

import (
	"github.com/Aleph-Alpha/vectorwire/v1/filters"
	"github.com/Aleph-Alpha/vectorwire/v1/vectors"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// DefaultHybridAlpha is used when HybridOptions.Alpha is nil.
const DefaultHybridAlpha float32 = 0.7

// ── Common options ───────────────────────────────────────────────────────────

// Common holds the options every search modality accepts.
type Common struct {
	Limit     uint32
	Offset    uint32
	AutoLimit uint32

	Filters filters.Filter

	// ReturnMetadata selects per-object metadata. The UUID is always
	// returned; nil asks for nothing else.
	ReturnMetadata *Metadata
	// ReturnProperties is the projection tree. nil returns every
	// non-reference property.
	ReturnProperties *Projection
	// IncludeVector returns the default vector of each object.
	IncludeVector bool
	// IncludeVectors returns the named vectors listed.
	IncludeVectors []string

	Sort   []Sort
	Rerank *Rerank

	GroupBy    *GroupBy
	Generative *Generative
}

// Metadata toggles individual metadata fields in the reply.
type Metadata struct {
	CreationTime   bool
	LastUpdateTime bool
	Distance       bool
	Certainty      bool
	Score          bool
	ExplainScore   bool
	IsConsistent   bool
}

// AllMetadata selects every metadata field.
func AllMetadata() *Metadata {
	return &Metadata{
		CreationTime:   true,
		LastUpdateTime: true,
		Distance:       true,
		Certainty:      true,
		Score:          true,
		ExplainScore:   true,
		IsConsistent:   true,
	}
}

// Projection selects returned properties.
type Projection struct {
	Properties []string
	Objects    []ObjectProperty
	References []RefProperty
}

// Props projects plain properties only.
func Props(names ...string) *Projection {
	return &Projection{Properties: names}
}

// ObjectProperty projects into a nested object property.
type ObjectProperty struct {
	Name       string
	Properties []string
	Objects    []ObjectProperty
}

// RefProperty follows a reference and projects the linked objects.
type RefProperty struct {
	LinkOn string
	// TargetCollection picks one collection of a multi-target reference.
	TargetCollection string
	// ReturnProperties nil returns every non-reference property of the
	// linked objects.
	ReturnProperties *Projection
	ReturnMetadata   *Metadata
	IncludeVector    bool
}

// Sort orders results by one property.
type Sort struct {
	Property  string
	Ascending bool
}

// Rerank reorders results with the collection's reranker module.
type Rerank struct {
	Property string
	// Query overrides the search query for reranking.
	Query string
}

// GroupBy groups results by a property.
type GroupBy struct {
	Property        string
	NumberOfGroups  int32
	ObjectsPerGroup int32
}

// Generative runs the collection's generative module over the results.
type Generative struct {
	SinglePrompt      string
	GroupedTask       string
	GroupedProperties []string
}

// ── Modalities ───────────────────────────────────────────────────────────────

// FetchOptions lists objects by filter, sort and cursor.
type FetchOptions struct {
	Common
	// After is a cursor: the UUID of the last object of the previous
	// page. It cannot be combined with filters or sorting.
	After string
}

// QueryProperty is a property searched by a keyword query, optionally
// boosted.
type QueryProperty struct {
	Name   string
	Weight float32
}

// Prop is an unboosted query property.
func Prop(name string) QueryProperty { return QueryProperty{Name: name} }

// Boost is a query property whose matches count weight times.
func Boost(name string, weight float32) QueryProperty {
	return QueryProperty{Name: name, Weight: weight}
}

// BM25Operator controls how query tokens must match.
type BM25Operator struct {
	Operator wire.SearchOperator
	// MinimumMatch is the least number of tokens that must match with Or.
	MinimumMatch int32
}

// BM25Options is a keyword search.
type BM25Options struct {
	Common
	Query           string
	QueryProperties []QueryProperty
	Operator        *BM25Operator
}

// HybridNearVector is a near-vector sub-search inside a hybrid search.
type HybridNearVector struct {
	Vector    vectors.Input
	Certainty *float64
	Distance  *float64
}

// HybridNearText is a near-text sub-search inside a hybrid search.
type HybridNearText struct {
	Query     []string
	Certainty *float64
	Distance  *float64
	MoveTo    *Move
	MoveAway  *Move
}

// HybridOptions blends keyword and vector search. At most one of Vector,
// NearVector and NearText may be set.
type HybridOptions struct {
	Common
	Query           string
	QueryProperties []QueryProperty
	// Alpha weights vector over keyword score; nil means 0.7.
	Alpha  *float32
	Fusion wire.FusionType

	Vector     vectors.Input
	NearVector *HybridNearVector
	NearText   *HybridNearText
	Targets    *vectors.Targets

	MaxVectorDistance *float32
	Operator          *BM25Operator
}

// NearVectorOptions searches by explicit query vectors.
type NearVectorOptions struct {
	Common
	Vector    vectors.Input
	Targets   *vectors.Targets
	Certainty *float64
	Distance  *float64
}

// Move shifts a near-text query towards or away from concepts or objects.
type Move struct {
	Force    float32
	Concepts []string
	Objects  []string
}

// NearTextOptions searches by text the server vectorizes.
type NearTextOptions struct {
	Common
	Query     []string
	Targets   *vectors.Targets
	Certainty *float64
	Distance  *float64
	MoveTo    *Move
	MoveAway  *Move
}

// NearObjectOptions searches by the vector of a stored object.
type NearObjectOptions struct {
	Common
	ID        string
	Targets   *vectors.Targets
	Certainty *float64
	Distance  *float64
}

// MediaKind is the modality of a near-media search.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaAudio
	MediaVideo
	MediaThermal
	MediaDepth
	MediaIMU
)

var mediaNames = map[MediaKind]string{
	MediaImage:   "image",
	MediaAudio:   "audio",
	MediaVideo:   "video",
	MediaThermal: "thermal",
	MediaDepth:   "depth",
	MediaIMU:     "imu",
}

func (k MediaKind) String() string {
	if name, ok := mediaNames[k]; ok {
		return name
	}
	return "unknown"
}

// NearMediaOptions searches by a base64-encoded media payload.
type NearMediaOptions struct {
	Common
	Kind      MediaKind
	Media     string
	Targets   *vectors.Targets
	Certainty *float64
	Distance  *float64
}
