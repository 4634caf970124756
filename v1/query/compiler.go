package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/filters"
	"github.com/Aleph-Alpha/vectorwire/v1/vectors"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Modality names the kind of search a request performs.
type Modality string

const (
	ModalityFetch      Modality = "fetch"
	ModalityBM25       Modality = "bm25"
	ModalityHybrid     Modality = "hybrid"
	ModalityNearVector Modality = "nearVector"
	ModalityNearText   Modality = "nearText"
	ModalityNearObject Modality = "nearObject"
	ModalityNearMedia  Modality = "nearMedia"
)

// Compiler turns search options into wire requests for one collection and
// one server version. It never performs I/O; every method returns either a
// complete request or an error.
type Compiler struct {
	collection  string
	tenant      string
	consistency *wire.ConsistencyLevel
	snapshot    version.Snapshot
	vectors     *vectors.Encoder
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithTenant targets one tenant of a multi-tenant collection.
func WithTenant(tenant string) Option {
	return func(c *Compiler) { c.tenant = tenant }
}

// WithConsistencyLevel sets the replica consistency of every request.
func WithConsistencyLevel(level wire.ConsistencyLevel) Option {
	return func(c *Compiler) {
		if level == wire.ConsistencyLevelUnspecified {
			c.consistency = nil
			return
		}
		c.consistency = &level
	}
}

// NewCompiler builds a compiler for collection at the given server version.
func NewCompiler(collection string, snapshot version.Snapshot, opts ...Option) *Compiler {
	c := &Compiler{
		collection: collection,
		snapshot:   snapshot,
		vectors:    vectors.NewEncoder(snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the version snapshot the compiler gates features with.
func (c *Compiler) Snapshot() version.Snapshot { return c.snapshot }

// Fetch compiles a plain listing by filter, sort and cursor.
func (c *Compiler) Fetch(o FetchOptions) (*wire.SearchRequest, error) {
	if o.GroupBy != nil {
		return nil, errs.Input("groupBy", "group-by needs a search query")
	}
	if o.After != "" {
		if o.Filters != nil || len(o.Sort) > 0 {
			return nil, errs.Input("after", "a cursor cannot be combined with filters or sorting")
		}
		if err := uuid.Validate(o.After); err != nil {
			return nil, errs.Input("after", "%q is not a valid uuid", o.After)
		}
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.After = o.After
	return req, nil
}

// BM25 compiles a keyword search.
func (c *Compiler) BM25(o BM25Options) (*wire.SearchRequest, error) {
	if err := c.requireGroupBy(o.GroupBy); err != nil {
		return nil, err
	}
	props, err := queryProperties("bm25.queryProperties", o.QueryProperties)
	if err != nil {
		return nil, err
	}
	op, err := c.operator("bm25.operator", o.Operator)
	if err != nil {
		return nil, err
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.BM25Search = &wire.BM25{Query: o.Query, Properties: props, SearchOperator: op}
	return req, nil
}

// Hybrid compiles a blended keyword and vector search.
func (c *Compiler) Hybrid(o HybridOptions) (*wire.SearchRequest, error) {
	if err := c.requireGroupBy(o.GroupBy); err != nil {
		return nil, err
	}

	alpha := DefaultHybridAlpha
	if o.Alpha != nil {
		alpha = *o.Alpha
	}
	if math.IsNaN(float64(alpha)) || alpha < 0 || alpha > 1 {
		return nil, errs.Input("hybrid.alpha", "alpha must be within [0, 1], got %v", alpha)
	}

	props, err := queryProperties("hybrid.queryProperties", o.QueryProperties)
	if err != nil {
		return nil, err
	}
	op, err := c.operator("hybrid.operator", o.Operator)
	if err != nil {
		return nil, err
	}

	h := &wire.Hybrid{
		Query:          o.Query,
		Properties:     props,
		Alpha:          alpha,
		FusionType:     o.Fusion,
		VectorDistance: o.MaxVectorDistance,
		BM25Operator:   op,
	}
	if err := c.hybridSubSearch(&o, h); err != nil {
		return nil, err
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.HybridSearch = h
	return req, nil
}

// hybridSubSearch fills the vector half of a hybrid search: a bare vector,
// a near-vector sub-search, or a near-text sub-search.
func (c *Compiler) hybridSubSearch(o *HybridOptions, h *wire.Hybrid) error {
	set := lo.CountBy([]bool{!o.Vector.IsZero(), o.NearVector != nil, o.NearText != nil}, func(b bool) bool { return b })
	if set > 1 {
		return errs.Input("hybrid", "vector, nearVector and nearText are mutually exclusive")
	}

	switch {
	case o.NearText != nil:
		if err := c.snapshot.Require(version.HybridNearSubSearch); err != nil {
			return err
		}
		nt, err := c.nearText("hybrid.nearText", o.NearText.Query, o.NearText.Certainty, o.NearText.Distance, o.NearText.MoveTo, o.NearText.MoveAway)
		if err != nil {
			return err
		}
		h.NearText = nt
		h.Targets, err = c.vectors.EncodeTargets("hybrid.targets", o.Targets)
		return err

	case o.NearVector != nil:
		if err := c.snapshot.Require(version.HybridNearSubSearch); err != nil {
			return err
		}
		nv, err := c.nearVector("hybrid.nearVector", o.NearVector.Vector, o.Targets, o.NearVector.Certainty, o.NearVector.Distance)
		if err != nil {
			return err
		}
		h.NearVector = nv
		return nil

	case !o.Vector.IsZero():
		enc, err := c.vectors.Encode("hybrid.vector", o.Vector, o.Targets)
		if err != nil {
			return err
		}
		if enc.Shape == vectors.ShapeLegacy {
			h.VectorBytes = enc.VectorBytes
			h.Targets = enc.Targets
			return nil
		}
		// Per-target vectors only travel inside a near-vector sub-search.
		if err := c.snapshot.Require(version.HybridNearSubSearch); err != nil {
			return err
		}
		h.NearVector = enc.NearVector()
		return nil
	}

	var err error
	h.Targets, err = c.vectors.EncodeTargets("hybrid.targets", o.Targets)
	return err
}

// NearVector compiles a search by explicit query vectors.
func (c *Compiler) NearVector(o NearVectorOptions) (*wire.SearchRequest, error) {
	nv, err := c.nearVector("nearVector", o.Vector, o.Targets, o.Certainty, o.Distance)
	if err != nil {
		return nil, err
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.NearVector = nv
	return req, nil
}

func (c *Compiler) nearVector(field string, in vectors.Input, t *vectors.Targets, certainty, distance *float64) (*wire.NearVector, error) {
	if err := exclusiveThreshold(field, certainty, distance); err != nil {
		return nil, err
	}
	enc, err := c.vectors.Encode(field+".vector", in, t)
	if err != nil {
		return nil, err
	}
	nv := enc.NearVector()
	nv.Certainty = certainty
	nv.Distance = distance
	return nv, nil
}

// NearText compiles a search by vectorized text.
func (c *Compiler) NearText(o NearTextOptions) (*wire.SearchRequest, error) {
	nt, err := c.nearText("nearText", o.Query, o.Certainty, o.Distance, o.MoveTo, o.MoveAway)
	if err != nil {
		return nil, err
	}
	nt.Targets, err = c.vectors.EncodeTargets("nearText.targets", o.Targets)
	if err != nil {
		return nil, err
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.NearText = nt
	return req, nil
}

func (c *Compiler) nearText(field string, query []string, certainty, distance *float64, to, away *Move) (*wire.NearTextSearch, error) {
	if len(query) == 0 || lo.Contains(query, "") {
		return nil, errs.Input(field+".query", "query text is empty")
	}
	if err := exclusiveThreshold(field, certainty, distance); err != nil {
		return nil, err
	}
	moveTo, err := encodeMove(field+".moveTo", to)
	if err != nil {
		return nil, err
	}
	moveAway, err := encodeMove(field+".moveAway", away)
	if err != nil {
		return nil, err
	}
	return &wire.NearTextSearch{
		Query:     query,
		Certainty: certainty,
		Distance:  distance,
		MoveTo:    moveTo,
		MoveAway:  moveAway,
	}, nil
}

func encodeMove(field string, m *Move) (*wire.Move, error) {
	if m == nil {
		return nil, nil
	}
	if len(m.Concepts) == 0 && len(m.Objects) == 0 {
		return nil, errs.Input(field, "move needs concepts or objects")
	}
	for _, id := range m.Objects {
		if err := uuid.Validate(id); err != nil {
			return nil, errs.Input(field, "%q is not a valid uuid", id)
		}
	}
	return &wire.Move{Force: m.Force, Concepts: m.Concepts, UUIDs: m.Objects}, nil
}

// NearObject compiles a search by the vector of a stored object.
func (c *Compiler) NearObject(o NearObjectOptions) (*wire.SearchRequest, error) {
	if err := uuid.Validate(o.ID); err != nil {
		return nil, errs.Input("nearObject.id", "%q is not a valid uuid", o.ID)
	}
	if err := exclusiveThreshold("nearObject", o.Certainty, o.Distance); err != nil {
		return nil, err
	}
	targets, err := c.vectors.EncodeTargets("nearObject.targets", o.Targets)
	if err != nil {
		return nil, err
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	req.NearObject = &wire.NearObject{
		ID:        o.ID,
		Certainty: o.Certainty,
		Distance:  o.Distance,
		Targets:   targets,
	}
	return req, nil
}

// NearMedia compiles a search by an image, audio, video, thermal, depth or
// IMU payload.
func (c *Compiler) NearMedia(o NearMediaOptions) (*wire.SearchRequest, error) {
	if o.Media == "" {
		return nil, errs.Input("nearMedia.media", "%s payload is empty", o.Kind)
	}
	if err := exclusiveThreshold("nearMedia", o.Certainty, o.Distance); err != nil {
		return nil, err
	}
	targets, err := c.vectors.EncodeTargets("nearMedia.targets", o.Targets)
	if err != nil {
		return nil, err
	}

	m := &wire.NearMediaSearch{
		Media:     o.Media,
		Certainty: o.Certainty,
		Distance:  o.Distance,
		Targets:   targets,
	}

	req, err := c.base(&o.Common)
	if err != nil {
		return nil, err
	}
	switch o.Kind {
	case MediaImage:
		req.NearImage = m
	case MediaAudio:
		req.NearAudio = m
	case MediaVideo:
		req.NearVideo = m
	case MediaThermal:
		req.NearThermal = m
	case MediaDepth:
		req.NearDepth = m
	case MediaIMU:
		req.NearIMU = m
	default:
		return nil, errs.Input("nearMedia.kind", "unknown media kind %d", int(o.Kind))
	}
	return req, nil
}

// ── Shared helpers ───────────────────────────────────────────────────────────

// base builds the fields shared by every modality.
func (c *Compiler) base(o *Common) (*wire.SearchRequest, error) {
	if c.collection == "" {
		return nil, errs.Input("collection", "collection name is empty")
	}
	if err := c.snapshot.Require(version.GRPC); err != nil {
		return nil, err
	}

	req := &wire.SearchRequest{
		Collection:       c.collection,
		Tenant:           c.tenant,
		ConsistencyLevel: c.consistency,
		Limit:            o.Limit,
		Offset:           o.Offset,
		Autocut:          o.AutoLimit,
		Uses123API:       true,
		Uses125API:       c.snapshot.Supports(version.API125),
		Uses127API:       c.snapshot.Supports(version.API127),
	}

	var err error
	if req.Filters, err = filters.Encode(o.Filters); err != nil {
		return nil, err
	}
	if req.Metadata, err = c.metadata(o.ReturnMetadata, o.IncludeVector, o.IncludeVectors); err != nil {
		return nil, err
	}
	if req.Properties, err = c.projection("returnProperties", o.ReturnProperties); err != nil {
		return nil, err
	}
	if req.SortBy, err = sortBy(o.Sort); err != nil {
		return nil, err
	}
	if req.Rerank, err = c.rerank(o.Rerank); err != nil {
		return nil, err
	}
	if req.GroupBy, err = groupBy(o.GroupBy); err != nil {
		return nil, err
	}
	if req.Generative, err = c.generative(o.Generative); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Compiler) metadata(md *Metadata, vector bool, named []string) (*wire.MetadataRequest, error) {
	out := &wire.MetadataRequest{UUID: true, Vector: vector}
	if len(named) > 0 {
		if err := c.snapshot.Require(version.NamedVectors); err != nil {
			return nil, err
		}
		if lo.Contains(named, "") {
			return nil, errs.Input("includeVectors", "vector name is empty")
		}
		out.Vectors = named
	}
	if md != nil {
		out.CreationTimeUnix = md.CreationTime
		out.LastUpdateTimeUnix = md.LastUpdateTime
		out.Distance = md.Distance
		out.Certainty = md.Certainty
		out.Score = md.Score
		out.ExplainScore = md.ExplainScore
		out.IsConsistent = md.IsConsistent
	}
	return out, nil
}

func (c *Compiler) projection(field string, p *Projection) (*wire.PropertiesRequest, error) {
	if p == nil {
		return &wire.PropertiesRequest{ReturnAllNonrefProperties: true}, nil
	}
	if lo.Contains(p.Properties, "") {
		return nil, errs.Input(field, "property name is empty")
	}

	out := &wire.PropertiesRequest{NonRefProperties: p.Properties}
	for _, op := range p.Objects {
		enc, err := objectProjection(field, op)
		if err != nil {
			return nil, err
		}
		out.ObjectProperties = append(out.ObjectProperties, enc)
	}
	for _, ref := range p.References {
		if ref.LinkOn == "" {
			return nil, errs.Input(field, "reference property name is empty")
		}
		props, err := c.projection(field+"."+ref.LinkOn, ref.ReturnProperties)
		if err != nil {
			return nil, err
		}
		md, err := c.metadata(ref.ReturnMetadata, ref.IncludeVector, nil)
		if err != nil {
			return nil, err
		}
		out.RefProperties = append(out.RefProperties, &wire.RefPropertiesRequest{
			ReferenceProperty: ref.LinkOn,
			Properties:        props,
			Metadata:          md,
			TargetCollection:  ref.TargetCollection,
		})
	}
	return out, nil
}

func objectProjection(field string, op ObjectProperty) (*wire.ObjectPropertiesRequest, error) {
	if op.Name == "" {
		return nil, errs.Input(field, "object property name is empty")
	}
	if len(op.Properties) == 0 && len(op.Objects) == 0 {
		return nil, errs.Input(field+"."+op.Name, "nested projection selects nothing")
	}
	out := &wire.ObjectPropertiesRequest{PropName: op.Name, PrimitiveProperties: op.Properties}
	for _, nested := range op.Objects {
		enc, err := objectProjection(field+"."+op.Name, nested)
		if err != nil {
			return nil, err
		}
		out.ObjectProperties = append(out.ObjectProperties, enc)
	}
	return out, nil
}

func sortBy(sorts []Sort) ([]*wire.SortBy, error) {
	out := make([]*wire.SortBy, 0, len(sorts))
	for _, s := range sorts {
		if s.Property == "" {
			return nil, errs.Input("sort", "sort property is empty")
		}
		out = append(out, &wire.SortBy{Ascending: s.Ascending, Path: []string{s.Property}})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (c *Compiler) rerank(r *Rerank) (*wire.Rerank, error) {
	if r == nil {
		return nil, nil
	}
	if err := c.snapshot.Require(version.Rerank); err != nil {
		return nil, err
	}
	if r.Property == "" {
		return nil, errs.Input("rerank.property", "rerank property is empty")
	}
	out := &wire.Rerank{Property: r.Property}
	if r.Query != "" {
		q := r.Query
		out.Query = &q
	}
	return out, nil
}

// requireGroupBy gates group-by for keyword and hybrid searches, which
// only accept it from 1.25 on.
func (c *Compiler) requireGroupBy(g *GroupBy) error {
	if g == nil {
		return nil
	}
	return c.snapshot.Require(version.GroupByBM25Hybrid)
}

func groupBy(g *GroupBy) (*wire.GroupBy, error) {
	if g == nil {
		return nil, nil
	}
	if g.Property == "" {
		return nil, errs.Input("groupBy.property", "group-by property is empty")
	}
	if g.NumberOfGroups <= 0 || g.ObjectsPerGroup <= 0 {
		return nil, errs.Input("groupBy", "group and object counts must be positive")
	}
	return &wire.GroupBy{
		Path:            []string{g.Property},
		NumberOfGroups:  g.NumberOfGroups,
		ObjectsPerGroup: g.ObjectsPerGroup,
	}, nil
}

func (c *Compiler) generative(g *Generative) (*wire.GenerativeSearch, error) {
	if g == nil {
		return nil, nil
	}
	if err := c.snapshot.Require(version.Generative); err != nil {
		return nil, err
	}
	if g.SinglePrompt == "" && g.GroupedTask == "" {
		return nil, errs.Input("generative", "needs a single prompt or a grouped task")
	}
	if len(g.GroupedProperties) > 0 && g.GroupedTask == "" {
		return nil, errs.Input("generative.groupedProperties", "grouped properties need a grouped task")
	}
	return &wire.GenerativeSearch{
		SingleResponsePrompt: g.SinglePrompt,
		GroupedResponseTask:  g.GroupedTask,
		GroupedProperties:    g.GroupedProperties,
	}, nil
}

func (c *Compiler) operator(field string, op *BM25Operator) (*wire.SearchOperatorOptions, error) {
	if op == nil {
		return nil, nil
	}
	if err := c.snapshot.Require(version.BM25SearchOperator); err != nil {
		return nil, err
	}
	switch op.Operator {
	case wire.SearchOperatorAnd:
		if op.MinimumMatch != 0 {
			return nil, errs.Input(field, "minimum match only applies to the Or operator")
		}
		return &wire.SearchOperatorOptions{Operator: op.Operator}, nil
	case wire.SearchOperatorOr:
		out := &wire.SearchOperatorOptions{Operator: op.Operator}
		if op.MinimumMatch > 0 {
			m := op.MinimumMatch
			out.MinimumOrTokensMatch = &m
		}
		return out, nil
	}
	return nil, errs.Input(field, "operator must be And or Or")
}

// queryProperties renders boosted properties as "name^weight"; unboosted
// ones (weight 0 or 1) stay plain names.
func queryProperties(field string, props []QueryProperty) ([]string, error) {
	out := make([]string, 0, len(props))
	for _, p := range props {
		if p.Name == "" || strings.Contains(p.Name, "^") {
			return nil, errs.Input(field, "invalid property name %q", p.Name)
		}
		if p.Weight < 0 {
			return nil, errs.Input(field, "weight of %q is negative", p.Name)
		}
		if p.Weight == 0 || p.Weight == 1 {
			out = append(out, p.Name)
			continue
		}
		out = append(out, p.Name+"^"+strconv.FormatFloat(float64(p.Weight), 'f', -1, 32))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func exclusiveThreshold(field string, certainty, distance *float64) error {
	if certainty != nil && distance != nil {
		return errs.Input(field, "certainty and distance are mutually exclusive")
	}
	return nil
}
