package wire

import (
	protocol "github.com/weaviate/weaviate/grpc/generated/protocol/v1"
)

// ConsistencyLevel controls replica agreement for reads and writes.
type ConsistencyLevel int32

const (
	ConsistencyLevelUnspecified ConsistencyLevel = iota
	ConsistencyLevelOne
	ConsistencyLevelQuorum
	ConsistencyLevelAll
)

// CombinationMethod merges scores across several target vectors.
type CombinationMethod int32

const (
	CombinationUnspecified CombinationMethod = iota
	CombinationTypeSum
	CombinationTypeMin
	CombinationTypeAverage
	CombinationTypeRelativeScore
	CombinationTypeManual
)

// FusionType ranks merged keyword/vector results in hybrid search.
type FusionType int32

const (
	FusionTypeUnspecified FusionType = iota
	FusionTypeRanked
	FusionTypeRelativeScore
)

// SearchOperator controls how bm25 query tokens must match.
type SearchOperator int32

const (
	SearchOperatorUnspecified SearchOperator = iota
	SearchOperatorOr
	SearchOperatorAnd
)

// SearchRequest is one compiled search. Exactly one modality field
// (or none, for a plain fetch) is set.
type SearchRequest struct {
	Collection       string
	Tenant           string
	ConsistencyLevel *ConsistencyLevel

	Properties *PropertiesRequest
	Metadata   *MetadataRequest
	GroupBy    *GroupBy

	Limit   uint32
	Offset  uint32
	Autocut uint32
	After   string

	SortBy  []*SortBy
	Filters *Filters

	HybridSearch *Hybrid
	BM25Search   *BM25
	NearVector   *NearVector
	NearObject   *NearObject
	NearText     *NearTextSearch
	NearImage    *NearMediaSearch
	NearAudio    *NearMediaSearch
	NearVideo    *NearMediaSearch
	NearDepth    *NearMediaSearch
	NearThermal  *NearMediaSearch
	NearIMU      *NearMediaSearch

	Generative *GenerativeSearch
	Rerank     *Rerank

	Uses123API bool
	Uses125API bool
	Uses127API bool
}

// MetadataRequest selects per-object metadata in the reply.
type MetadataRequest struct {
	UUID               bool
	Vector             bool
	CreationTimeUnix   bool
	LastUpdateTimeUnix bool
	Distance           bool
	Certainty          bool
	Score              bool
	ExplainScore       bool
	IsConsistent       bool
	Vectors            []string
}

// PropertiesRequest is the projection tree of returned properties.
type PropertiesRequest struct {
	NonRefProperties          []string
	RefProperties             []*RefPropertiesRequest
	ObjectProperties          []*ObjectPropertiesRequest
	ReturnAllNonrefProperties bool
}

// ObjectPropertiesRequest projects into a nested object property.
type ObjectPropertiesRequest struct {
	PropName            string
	PrimitiveProperties []string
	ObjectProperties    []*ObjectPropertiesRequest
}

// RefPropertiesRequest follows a reference and projects the linked objects.
type RefPropertiesRequest struct {
	ReferenceProperty string
	Properties        *PropertiesRequest
	Metadata          *MetadataRequest
	TargetCollection  string
}

// SortBy orders results by a property path.
type SortBy struct {
	Ascending bool
	Path      []string
}

// GroupBy groups results by a property.
type GroupBy struct {
	Path            []string
	NumberOfGroups  int32
	ObjectsPerGroup int32
}

// Rerank reorders results with a reranker module.
type Rerank struct {
	Property string
	Query    *string
}

// GenerativeSearch asks the server to run a generative module over results.
type GenerativeSearch struct {
	SingleResponsePrompt string
	GroupedResponseTask  string
	GroupedProperties    []string
}

// Targets names the target vectors of a search and how to combine them.
type Targets struct {
	TargetVectors     []string
	Combination       CombinationMethod
	Weights           map[string]float32
	WeightsForTargets []*WeightsForTarget
}

// WeightsForTarget is one (target, weight) pair; targets may repeat.
type WeightsForTarget struct {
	Target string
	Weight float32
}

// VectorForTarget is one query vector for one named target.
type VectorForTarget struct {
	Name        string
	VectorBytes []byte
}

// NearVector searches by explicit query vectors.
type NearVector struct {
	Certainty        *float64
	Distance         *float64
	VectorBytes      []byte
	Targets          *Targets
	VectorPerTarget  map[string][]byte
	VectorForTargets []*VectorForTarget
}

// NearObject searches by the vector of a stored object.
type NearObject struct {
	ID        string
	Certainty *float64
	Distance  *float64
	Targets   *Targets
}

// Move shifts a near-text query towards or away from concepts/objects.
type Move struct {
	Force    float32
	Concepts []string
	UUIDs    []string
}

// NearTextSearch searches by vectorized text.
type NearTextSearch struct {
	Query     []string
	Certainty *float64
	Distance  *float64
	MoveTo    *Move
	MoveAway  *Move
	Targets   *Targets
}

// NearMediaSearch searches by a base64 media payload (image, audio,
// video, depth, thermal or IMU, depending on the request field it sits in).
type NearMediaSearch struct {
	Media     string
	Certainty *float64
	Distance  *float64
	Targets   *Targets
}

// BM25 is a keyword search.
type BM25 struct {
	Query          string
	Properties     []string
	SearchOperator *SearchOperatorOptions
}

// SearchOperatorOptions tunes bm25 token matching.
type SearchOperatorOptions struct {
	Operator             SearchOperator
	MinimumOrTokensMatch *int32
}

// Hybrid blends keyword and vector search.
type Hybrid struct {
	Query          string
	Properties     []string
	Alpha          float32
	FusionType     FusionType
	VectorBytes    []byte
	Targets        *Targets
	NearText       *NearTextSearch
	NearVector     *NearVector
	VectorDistance *float32
	BM25Operator   *SearchOperatorOptions
}

// SearchReply is the transport's answer to a SearchRequest. Decoding the
// result properties into user types is the dual of compilation and lives
// elsewhere; Proto keeps the full server message for it.
type SearchReply struct {
	Took    float32
	Results []SearchResult
	Proto   *protocol.SearchReply
}

// SearchResult is the metadata of one returned object.
type SearchResult struct {
	ID        string
	Distance  float32
	Certainty float32
	Score     float32
}
