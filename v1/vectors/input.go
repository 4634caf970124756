package vectors

import (
	"slices"

	"github.com/samber/lo"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// InputKind is the shape of a query vector input.
type InputKind int

const (
	// KindNone is the zero Input: no vector supplied.
	KindNone InputKind = iota
	// KindSingle is one unnamed vector.
	KindSingle
	// KindPerTarget maps each target name to one or more vectors.
	KindPerTarget
)

// Input is a query vector: a single flat vector, or vectors keyed by
// target name. Construct it with Single, PerTarget or MultiPerTarget.
type Input struct {
	kind      InputKind
	single    []float32
	perTarget map[string][][]float32
}

// Single is one unnamed vector.
func Single(v []float32) Input {
	return Input{kind: KindSingle, single: v}
}

// PerTarget is one vector for each named target.
func PerTarget(m map[string][]float32) Input {
	pt := make(map[string][][]float32, len(m))
	for name, v := range m {
		pt[name] = [][]float32{v}
	}
	return Input{kind: KindPerTarget, perTarget: pt}
}

// MultiPerTarget is one or more vectors for each named target. More than
// one vector for the same target needs a 1.27 server.
func MultiPerTarget(m map[string][][]float32) Input {
	pt := make(map[string][][]float32, len(m))
	for name, vs := range m {
		pt[name] = slices.Clone(vs)
	}
	return Input{kind: KindPerTarget, perTarget: pt}
}

// Kind returns the input shape.
func (in Input) Kind() InputKind { return in.kind }

// IsZero reports whether no vector was supplied.
func (in Input) IsZero() bool { return in.kind == KindNone }

// Names returns the target names in sorted order.
func (in Input) Names() []string {
	names := lo.Keys(in.perTarget)
	slices.Sort(names)
	return names
}

// multiVector reports whether any target carries more than one vector.
func (in Input) multiVector() bool {
	return lo.SomeBy(lo.Values(in.perTarget), func(vs [][]float32) bool { return len(vs) > 1 })
}

func (in Input) validate(field string) error {
	switch in.kind {
	case KindNone:
		return errs.Input(field, "no vector supplied")
	case KindSingle:
		if len(in.single) == 0 {
			return errs.Input(field, "vector is empty")
		}
	case KindPerTarget:
		if len(in.perTarget) == 0 {
			return errs.Input(field, "no target vectors supplied")
		}
		for name, vs := range in.perTarget {
			if name == "" {
				return errs.Input(field, "target vector name is empty")
			}
			if len(vs) == 0 {
				return errs.Input(field, "target %q has no vectors", name)
			}
			for i, v := range vs {
				if len(v) == 0 {
					return errs.Input(field, "vector %d of target %q is empty", i, name)
				}
			}
		}
	}
	return nil
}

// Combination merges scores across several target vectors.
type Combination int

const (
	// CombinationDefault leaves the choice to the server.
	CombinationDefault Combination = iota
	Sum
	Average
	Minimum
	RelativeScore
	ManualWeights
)

var combinationWire = map[Combination]wire.CombinationMethod{
	CombinationDefault: wire.CombinationUnspecified,
	Sum:                wire.CombinationTypeSum,
	Average:            wire.CombinationTypeAverage,
	Minimum:            wire.CombinationTypeMin,
	RelativeScore:      wire.CombinationTypeRelativeScore,
	ManualWeights:      wire.CombinationTypeManual,
}

func (c Combination) weighted() bool {
	return c == RelativeScore || c == ManualWeights
}

// Targets names the target vectors to search and how to combine them.
// Weights is keyed by target name; a single-element slice is a scalar
// weight, longer slices give one weight per query vector of that target.
type Targets struct {
	Names       []string
	Combination Combination
	Weights     map[string][]float32
}

// TargetVectors searches the named targets with the server's default
// combination.
func TargetVectors(names ...string) *Targets {
	return &Targets{Names: names}
}

// SumOf sums the scores of names.
func SumOf(names ...string) *Targets {
	return &Targets{Names: names, Combination: Sum}
}

// AverageOf averages the scores of names.
func AverageOf(names ...string) *Targets {
	return &Targets{Names: names, Combination: Average}
}

// MinimumOf takes the minimum score over names.
func MinimumOf(names ...string) *Targets {
	return &Targets{Names: names, Combination: Minimum}
}

// ManualWeightsOf weights each target's score by one scalar.
func ManualWeightsOf(weights map[string]float32) *Targets {
	return scalarWeights(ManualWeights, weights)
}

// RelativeScoreOf normalizes scores and weights each target by one scalar.
func RelativeScoreOf(weights map[string]float32) *Targets {
	return scalarWeights(RelativeScore, weights)
}

// MultiWeightsOf gives one weight per query vector of each target.
func MultiWeightsOf(c Combination, weights map[string][]float32) *Targets {
	names := lo.Keys(weights)
	slices.Sort(names)
	return &Targets{Names: names, Combination: c, Weights: weights}
}

func scalarWeights(c Combination, weights map[string]float32) *Targets {
	names := lo.Keys(weights)
	slices.Sort(names)
	return &Targets{
		Names:       names,
		Combination: c,
		Weights:     lo.MapValues(weights, func(w float32, _ string) []float32 { return []float32{w} }),
	}
}
