package filters

import (
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Reserved property names understood by the server.
const (
	idProperty             = "_id"
	creationTimeProperty   = "_creationTimeUnix"
	lastUpdateTimeProperty = "_lastUpdateTimeUnix"
)

// LeafKind is what a target chain ends in.
type LeafKind int

const (
	// LeafProperty tests a property value.
	LeafProperty LeafKind = iota
	// LeafCount tests the number of references on a reference property.
	LeafCount
)

// Hop is one step through a reference property. TargetCollection is set
// for multi-target references and empty otherwise.
type Hop struct {
	LinkOn           string
	TargetCollection string
}

// Target is a resolved filter path: the reference hops in traversal order
// (outermost first) followed by the leaf. Builders append hops, so the
// chain is already outer-to-inner and never needs re-linearizing.
type Target struct {
	Hops []Hop
	Leaf LeafKind
	// Name is the property for LeafProperty and the reference property
	// being counted for LeafCount.
	Name string
}

// Path renders the target as "hop>hop>leaf", with "#count" for count
// leaves and "[Collection]" for multi-target hops.
func (t Target) Path() string {
	parts := make([]string, 0, len(t.Hops)+1)
	for _, h := range t.Hops {
		if h.TargetCollection != "" {
			parts = append(parts, fmt.Sprintf("%s[%s]", h.LinkOn, h.TargetCollection))
			continue
		}
		parts = append(parts, h.LinkOn)
	}
	leaf := t.Name
	if t.Leaf == LeafCount {
		leaf += "#count"
	}
	return strings.Join(append(parts, leaf), ">")
}

// Equal reports whether t and o describe the same path.
func (t Target) Equal(o Target) bool {
	if t.Leaf != o.Leaf || t.Name != o.Name || len(t.Hops) != len(o.Hops) {
		return false
	}
	for i := range t.Hops {
		if t.Hops[i] != o.Hops[i] {
			return false
		}
	}
	return true
}

func (t Target) validate() error {
	if t.Name == "" {
		return errs.Input("filter.target", "leaf name is empty")
	}
	for i, h := range t.Hops {
		if h.LinkOn == "" {
			return errs.Input("filter.target", "reference hop %d has no property name", i)
		}
	}
	return nil
}

// encode builds the nested wire target from the innermost leaf outwards.
func (t Target) encode() *wire.FilterTarget {
	var inner *wire.FilterTarget
	if t.Leaf == LeafCount {
		inner = &wire.FilterTarget{Count: &wire.FilterReferenceCount{On: t.Name}}
	} else {
		inner = &wire.FilterTarget{Property: t.Name}
	}
	for i := len(t.Hops) - 1; i >= 0; i-- {
		h := t.Hops[i]
		if h.TargetCollection != "" {
			inner = &wire.FilterTarget{MultiTarget: &wire.FilterReferenceMultiTarget{
				On:               h.LinkOn,
				Target:           inner,
				TargetCollection: h.TargetCollection,
			}}
			continue
		}
		inner = &wire.FilterTarget{SingleTarget: &wire.FilterReferenceSingleTarget{
			On:     h.LinkOn,
			Target: inner,
		}}
	}
	return inner
}

// DecodeTarget walks a wire target outer-to-inner back into a Target.
// A reference without an inner target, or a node with no field set, is an
// input error.
func DecodeTarget(wt *wire.FilterTarget) (Target, error) {
	var t Target
	for depth := 0; ; depth++ {
		switch {
		case wt == nil:
			return Target{}, errs.Input("filter.target", "reference chain ends without a property or count at depth %d", depth)
		case wt.SingleTarget != nil:
			t.Hops = append(t.Hops, Hop{LinkOn: wt.SingleTarget.On})
			wt = wt.SingleTarget.Target
		case wt.MultiTarget != nil:
			t.Hops = append(t.Hops, Hop{
				LinkOn:           wt.MultiTarget.On,
				TargetCollection: wt.MultiTarget.TargetCollection,
			})
			wt = wt.MultiTarget.Target
		case wt.Count != nil:
			t.Leaf = LeafCount
			t.Name = wt.Count.On
			return t, nil
		case wt.Property != "":
			t.Leaf = LeafProperty
			t.Name = wt.Property
			return t, nil
		default:
			return Target{}, errs.Input("filter.target", "empty target node at depth %d", depth)
		}
	}
}
