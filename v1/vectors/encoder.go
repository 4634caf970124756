package vectors

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Capabilities is the set of server features that decide the vector
// envelope. It is computed once per compile from a version snapshot.
type Capabilities uint8

const (
	CapNamedVectors Capabilities = 1 << iota
	CapMultiTarget
	CapVectorsForTargets
	CapMultiWeights
)

// Has reports whether every bit of c2 is set in c.
func (c Capabilities) Has(c2 Capabilities) bool { return c&c2 == c2 }

// CapabilitiesOf derives the capability bits from a snapshot.
func CapabilitiesOf(s version.Snapshot) Capabilities {
	var c Capabilities
	if s.Supports(version.NamedVectors) {
		c |= CapNamedVectors
	}
	if s.Supports(version.MultiTargetVectorSearch) {
		c |= CapMultiTarget
	}
	if s.Supports(version.VectorsForTargets) {
		c |= CapVectorsForTargets
	}
	if s.Supports(version.MultiWeightsPerTarget) {
		c |= CapMultiWeights
	}
	return c
}

// Shape is the wire envelope chosen for a vector input.
type Shape int

const (
	// ShapeLegacy is one flat vectorBytes buffer.
	ShapeLegacy Shape = iota
	// ShapeNamedSingle is one flat buffer plus a single target name.
	ShapeNamedSingle
	// ShapePerTargetMap is the vectorPerTarget map, one vector per target.
	ShapePerTargetMap
	// ShapePerTargetList is the vectorForTargets list, any number of
	// vectors per target.
	ShapePerTargetList
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeNamedSingle:
		return "namedSingle"
	case ShapePerTargetMap:
		return "vectorPerTarget"
	case ShapePerTargetList:
		return "vectorForTargets"
	}
	return "unknown"
}

// shapeRule maps an input and a capability set to a shape. Rules are
// tried in order; the first match wins.
type shapeRule struct {
	shape Shape
	match func(in Input, targets int, caps Capabilities) bool
}

var shapeRules = []shapeRule{
	{ShapeLegacy, func(in Input, _ int, _ Capabilities) bool {
		return in.kind == KindSingle
	}},
	{ShapePerTargetList, func(_ Input, _ int, caps Capabilities) bool {
		return caps.Has(CapVectorsForTargets)
	}},
	{ShapePerTargetMap, func(in Input, _ int, caps Capabilities) bool {
		return caps.Has(CapMultiTarget) && !in.multiVector()
	}},
	{ShapeNamedSingle, func(in Input, targets int, caps Capabilities) bool {
		return caps.Has(CapNamedVectors) && targets == 1 && !in.multiVector()
	}},
}

// Encoded is the vector part of a near-vector style search. Exactly one of
// VectorBytes, VectorPerTarget and VectorForTargets is set.
type Encoded struct {
	Shape            Shape
	VectorBytes      []byte
	VectorPerTarget  map[string][]byte
	VectorForTargets []*wire.VectorForTarget
	Targets          *wire.Targets
}

// NearVector wraps e in a wire.NearVector.
func (e *Encoded) NearVector() *wire.NearVector {
	return &wire.NearVector{
		VectorBytes:      e.VectorBytes,
		VectorPerTarget:  e.VectorPerTarget,
		VectorForTargets: e.VectorForTargets,
		Targets:          e.Targets,
	}
}

// Encoder picks the vector envelope for one server version.
type Encoder struct {
	snapshot version.Snapshot
	caps     Capabilities
}

// NewEncoder builds an encoder for the given version snapshot.
func NewEncoder(s version.Snapshot) *Encoder {
	return &Encoder{snapshot: s, caps: CapabilitiesOf(s)}
}

// Capabilities returns the capability bits the encoder decides with.
func (e *Encoder) Capabilities() Capabilities { return e.caps }

// Encode validates in and t and produces the richest envelope the server
// accepts. field names the option in error messages.
func (e *Encoder) Encode(field string, in Input, t *Targets) (*Encoded, error) {
	if err := in.validate(field); err != nil {
		return nil, err
	}

	names, err := e.targetNames(field, in, t)
	if err != nil {
		return nil, err
	}

	shape, err := e.pickShape(in, len(names))
	if err != nil {
		return nil, err
	}

	out := &Encoded{Shape: shape}
	switch shape {
	case ShapeLegacy:
		out.VectorBytes = wire.PackFloat32(in.single)
	case ShapeNamedSingle:
		out.VectorBytes = wire.PackFloat32(in.perTarget[names[0]][0])
	case ShapePerTargetMap:
		out.VectorPerTarget = make(map[string][]byte, len(names))
		for _, name := range names {
			out.VectorPerTarget[name] = wire.PackFloat32(in.perTarget[name][0])
		}
	case ShapePerTargetList:
		for _, name := range names {
			for _, v := range in.perTarget[name] {
				out.VectorForTargets = append(out.VectorForTargets, &wire.VectorForTarget{
					Name:        name,
					VectorBytes: wire.PackFloat32(v),
				})
			}
		}
	}

	if len(names) > 0 {
		out.Targets, err = e.encodeTargets(field, names, vectorCounts(in, shape, names), t)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeTargets encodes a target descriptor for searches that carry no
// query vector of their own (near-text, near-object, near-media). A nil
// descriptor encodes to nil.
func (e *Encoder) EncodeTargets(field string, t *Targets) (*wire.Targets, error) {
	if t == nil {
		return nil, nil
	}
	if len(t.Names) == 0 {
		return nil, errs.Input(field, "target vector list is empty")
	}
	if err := checkNames(field, t.Names); err != nil {
		return nil, err
	}
	if err := e.requireTargetCount(len(lo.Uniq(t.Names))); err != nil {
		return nil, err
	}
	return e.encodeTargets(field, lo.Uniq(t.Names), nil, t)
}

func (e *Encoder) pickShape(in Input, targets int) (Shape, error) {
	for _, r := range shapeRules {
		if r.match(in, targets, e.caps) {
			return r.shape, nil
		}
	}

	// Nothing matched: name the feature whose absence blocked us. Several
	// vectors for one target need the per-target list whatever the target
	// count, so that check comes first.
	var blocked version.Feature
	switch {
	case in.multiVector():
		blocked = version.VectorsForTargets
	case targets > 1:
		blocked = version.MultiTargetVectorSearch
	default:
		blocked = version.NamedVectors
	}
	if err := e.snapshot.Require(blocked); err != nil {
		return 0, err
	}
	return 0, &errs.UnsupportedFeatureError{
		Feature:       blocked.Name(),
		MinVersion:    blocked.MinVersion().String(),
		ServerVersion: e.snapshot.Version().String(),
		Message: fmt.Sprintf("no vector encoding for %d target(s) is available on Weaviate server version %s",
			targets, e.snapshot.Version()),
	}
}

// checkNames rejects empty target names.
func checkNames(field string, names []string) error {
	if slices.Contains(names, "") {
		return errs.Input(field, "target vector name is empty")
	}
	return nil
}

func (e *Encoder) requireTargetCount(n int) error {
	if n > 1 {
		return e.snapshot.Require(version.MultiTargetVectorSearch)
	}
	return e.snapshot.Require(version.NamedVectors)
}

// targetNames resolves the ordered target list. Explicit names keep the
// caller's order; otherwise the input's names are used sorted.
func (e *Encoder) targetNames(field string, in Input, t *Targets) ([]string, error) {
	if t != nil {
		if err := checkNames(field, t.Names); err != nil {
			return nil, err
		}
	}
	if in.kind == KindSingle {
		if t == nil || len(t.Names) == 0 {
			return nil, nil
		}
		if err := e.requireTargetCount(len(lo.Uniq(t.Names))); err != nil {
			return nil, err
		}
		return lo.Uniq(t.Names), nil
	}

	if t == nil || len(t.Names) == 0 {
		return in.Names(), nil
	}
	names := lo.Uniq(t.Names)
	for _, name := range names {
		if _, ok := in.perTarget[name]; !ok {
			return nil, errs.Input(field, "target %q has no query vector", name)
		}
	}
	for _, name := range in.Names() {
		if !slices.Contains(names, name) {
			return nil, errs.Input(field, "vector for %q is not in the target list", name)
		}
	}
	return names, nil
}

// vectorCounts is the number of query vectors sent per target; nil means
// one per target.
func vectorCounts(in Input, shape Shape, names []string) map[string]int {
	if shape != ShapePerTargetList {
		return nil
	}
	return lo.SliceToMap(names, func(name string) (string, int) {
		return name, len(in.perTarget[name])
	})
}

func (e *Encoder) encodeTargets(field string, names []string, counts map[string]int, t *Targets) (*wire.Targets, error) {
	out := &wire.Targets{}
	if t != nil {
		out.Combination = combinationWire[t.Combination]
	}

	var weights map[string][]float32
	if t != nil {
		weights = t.Weights
	}
	if err := e.validateWeights(field, names, counts, t, weights); err != nil {
		return nil, err
	}

	multiWeight := lo.SomeBy(lo.Values(weights), func(w []float32) bool { return len(w) > 1 })
	if multiWeight {
		if err := e.snapshot.Require(version.MultiWeightsPerTarget); err != nil {
			return nil, err
		}
	}

	// Each target name appears once per vector (or weight) sent for it.
	for _, name := range names {
		n := max(1, counts[name], len(weights[name]))
		for range n {
			out.TargetVectors = append(out.TargetVectors, name)
		}
	}

	if len(weights) == 0 {
		return out, nil
	}
	if e.caps.Has(CapMultiWeights) {
		for _, name := range names {
			for _, w := range weights[name] {
				out.WeightsForTargets = append(out.WeightsForTargets, &wire.WeightsForTarget{Target: name, Weight: w})
			}
		}
		return out, nil
	}
	out.Weights = make(map[string]float32, len(weights))
	for _, name := range names {
		if w, ok := weights[name]; ok {
			out.Weights[name] = w[0]
		}
	}
	return out, nil
}

func (e *Encoder) validateWeights(field string, names []string, counts map[string]int, t *Targets, weights map[string][]float32) error {
	if t == nil {
		return nil
	}
	if t.Combination.weighted() && len(weights) == 0 {
		return errs.Input(field, "combination needs a weight per target")
	}
	if !t.Combination.weighted() && len(weights) > 0 {
		return errs.Input(field, "weights are only used with manual or relative-score combinations")
	}
	for name, w := range weights {
		if !slices.Contains(names, name) {
			return errs.Input(field, "weight given for unknown target %q", name)
		}
		if len(w) == 0 {
			return errs.Input(field, "weight list for %q is empty", name)
		}
		if c := counts[name]; c > 1 && len(w) != c {
			return errs.Input(field, "target %q has %d vectors but %d weights", name, c, len(w))
		}
	}
	return nil
}
