package filters

import (
	"time"

	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// ── Filter nodes ─────────────────────────────────────────────────────────────

// Filter is a node of a filter tree: a *Combinator or a *Leaf.
// Nodes are built bottom-up and never mutated afterwards.
type Filter interface {
	isFilter()
}

// Combinator joins child filters with And or Or.
type Combinator struct {
	Op       wire.FilterOperator
	Children []Filter
}

func (*Combinator) isFilter() {}

// Leaf tests one target against one value.
type Leaf struct {
	Target   Target
	Operator wire.FilterOperator
	Value    Value
}

func (*Leaf) isFilter() {}

// And matches when every child matches.
func And(children ...Filter) Filter {
	return &Combinator{Op: wire.OperatorAnd, Children: children}
}

// Or matches when at least one child matches.
func Or(children ...Filter) Filter {
	return &Combinator{Op: wire.OperatorOr, Children: children}
}

// ── Entry points ─────────────────────────────────────────────────────────────

// ByProperty targets a property of the searched collection.
func ByProperty(name string) *Where {
	return &Where{target: Target{Leaf: LeafProperty, Name: name}}
}

// ByID targets the object UUID. Values must be valid UUID strings.
func ByID() *Where {
	return ByProperty(idProperty)
}

// ByCreationTime targets the creation timestamp. Use Date values.
func ByCreationTime() *Where {
	return ByProperty(creationTimeProperty)
}

// ByUpdateTime targets the last update timestamp. Use Date values.
func ByUpdateTime() *Where {
	return ByProperty(lastUpdateTimeProperty)
}

// ByPropertyLength targets the length of a property. Use Int values.
// The collection must index property lengths.
func ByPropertyLength(name string) *Where {
	return ByProperty("len(" + name + ")")
}

// ByRefCount targets the number of references stored on linkOn.
func ByRefCount(linkOn string) *Where {
	return &Where{target: Target{Leaf: LeafCount, Name: linkOn}}
}

// ByRef starts a path through the single-target reference linkOn.
func ByRef(linkOn string) *RefPath {
	return (&RefPath{}).ByRef(linkOn)
}

// ByRefMultiTarget starts a path through the multi-target reference linkOn
// into collection.
func ByRefMultiTarget(linkOn, collection string) *RefPath {
	return (&RefPath{}).ByRefMultiTarget(linkOn, collection)
}

// ── Reference paths ──────────────────────────────────────────────────────────

// RefPath is a chain of reference hops that still needs a leaf. Each method
// returns a new value; a RefPath can be reused as a common prefix.
type RefPath struct {
	hops []Hop
}

func (p *RefPath) with(h Hop) *RefPath {
	hops := make([]Hop, len(p.hops), len(p.hops)+1)
	copy(hops, p.hops)
	return &RefPath{hops: append(hops, h)}
}

func (p *RefPath) leaf(kind LeafKind, name string) *Where {
	return &Where{target: Target{Hops: append([]Hop(nil), p.hops...), Leaf: kind, Name: name}}
}

// ByRef follows another single-target reference.
func (p *RefPath) ByRef(linkOn string) *RefPath {
	return p.with(Hop{LinkOn: linkOn})
}

// ByRefMultiTarget follows another multi-target reference into collection.
func (p *RefPath) ByRefMultiTarget(linkOn, collection string) *RefPath {
	return p.with(Hop{LinkOn: linkOn, TargetCollection: collection})
}

func (p *RefPath) ByProperty(name string) *Where { return p.leaf(LeafProperty, name) }

func (p *RefPath) ByID() *Where { return p.leaf(LeafProperty, idProperty) }

func (p *RefPath) ByCreationTime() *Where { return p.leaf(LeafProperty, creationTimeProperty) }

func (p *RefPath) ByUpdateTime() *Where { return p.leaf(LeafProperty, lastUpdateTimeProperty) }

func (p *RefPath) ByPropertyLength(name string) *Where {
	return p.leaf(LeafProperty, "len("+name+")")
}

func (p *RefPath) ByRefCount(linkOn string) *Where { return p.leaf(LeafCount, linkOn) }

// ── Leaf builder ─────────────────────────────────────────────────────────────

// Where is a resolved target waiting for an operator and a value.
// Operator/value compatibility is checked when the tree is encoded.
type Where struct {
	target Target
}

// Target returns the resolved path.
func (w *Where) Target() Target { return w.target }

func (w *Where) leaf(op wire.FilterOperator, v Value) Filter {
	return &Leaf{Target: w.target, Operator: op, Value: v}
}

func (w *Where) Equal(v Value) Filter { return w.leaf(wire.OperatorEqual, v) }
func (w *Where) NotEqual(v Value) Filter { return w.leaf(wire.OperatorNotEqual, v) }
func (w *Where) GreaterThan(v Value) Filter { return w.leaf(wire.OperatorGreaterThan, v) }
func (w *Where) GreaterOrEqual(v Value) Filter { return w.leaf(wire.OperatorGreaterThanEqual, v) }
func (w *Where) LessThan(v Value) Filter { return w.leaf(wire.OperatorLessThan, v) }
func (w *Where) LessOrEqual(v Value) Filter { return w.leaf(wire.OperatorLessThanEqual, v) }
func (w *Where) ContainsAny(v Value) Filter { return w.leaf(wire.OperatorContainsAny, v) }
func (w *Where) ContainsAll(v Value) Filter { return w.leaf(wire.OperatorContainsAll, v) }
func (w *Where) WithinGeoRange(g GeoRange) Filter { return w.leaf(wire.OperatorWithinGeoRange, Geo(g)) }

// Like matches text with the server's wildcard syntax (* and ?).
func (w *Where) Like(pattern string) Filter { return w.leaf(wire.OperatorLike, Text(pattern)) }

// IsNull matches objects whose property is (or is not) null. The
// collection must index null state.
func (w *Where) IsNull(null bool) Filter { return w.leaf(wire.OperatorIsNull, Bool(null)) }

// Before and After are Date shorthands for timestamp targets.
func (w *Where) Before(t time.Time) Filter { return w.LessThan(Date(t)) }
func (w *Where) After(t time.Time) Filter { return w.GreaterThan(Date(t)) }
