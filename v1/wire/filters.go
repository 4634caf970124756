package wire

// FilterOperator is the operator of one filter node.
type FilterOperator int32

const (
	OperatorUnspecified FilterOperator = iota
	OperatorEqual
	OperatorNotEqual
	OperatorGreaterThan
	OperatorGreaterThanEqual
	OperatorLessThan
	OperatorLessThanEqual
	OperatorAnd
	OperatorOr
	OperatorWithinGeoRange
	OperatorLike
	OperatorIsNull
	OperatorContainsAny
	OperatorContainsAll
)

var operatorNames = map[FilterOperator]string{
	OperatorUnspecified:      "Unspecified",
	OperatorEqual:            "Equal",
	OperatorNotEqual:         "NotEqual",
	OperatorGreaterThan:      "GreaterThan",
	OperatorGreaterThanEqual: "GreaterThanEqual",
	OperatorLessThan:         "LessThan",
	OperatorLessThanEqual:    "LessThanEqual",
	OperatorAnd:              "And",
	OperatorOr:               "Or",
	OperatorWithinGeoRange:   "WithinGeoRange",
	OperatorLike:             "Like",
	OperatorIsNull:           "IsNull",
	OperatorContainsAny:      "ContainsAny",
	OperatorContainsAll:      "ContainsAll",
}

func (o FilterOperator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "Unknown"
}

// Filters is one node of a filter tree. Combinators (And/Or) carry child
// Filters; leaves carry a Target and exactly one test value.
type Filters struct {
	Operator FilterOperator
	Filters  []*Filters
	Target   *FilterTarget

	ValueText         *string
	ValueInt          *int64
	ValueBoolean      *bool
	ValueNumber       *float64
	ValueTextArray    *TextArray
	ValueIntArray     *IntArray
	ValueBooleanArray *BooleanArray
	ValueNumberArray  *NumberArray
	ValueGeo          *GeoCoordinatesFilter
}

// TextArray wraps a repeated string test value.
type TextArray struct {
	Values []string
}

// IntArray wraps a repeated int test value.
type IntArray struct {
	Values []int64
}

// BooleanArray wraps a repeated bool test value.
type BooleanArray struct {
	Values []bool
}

// NumberArray wraps a repeated float test value.
type NumberArray struct {
	Values []float64
}

// GeoCoordinatesFilter is the WithinGeoRange test value.
type GeoCoordinatesFilter struct {
	Latitude  float32
	Longitude float32
	Distance  float32
}

// FilterTarget is what a leaf filter tests: a property, a reference count,
// or a hop through a reference to a nested target. Exactly one field is set.
type FilterTarget struct {
	Property     string
	SingleTarget *FilterReferenceSingleTarget
	MultiTarget  *FilterReferenceMultiTarget
	Count        *FilterReferenceCount
}

// FilterReferenceSingleTarget hops through a single-target reference.
type FilterReferenceSingleTarget struct {
	On     string
	Target *FilterTarget
}

// FilterReferenceMultiTarget hops through a multi-target reference into
// one explicit collection.
type FilterReferenceMultiTarget struct {
	On               string
	Target           *FilterTarget
	TargetCollection string
}

// FilterReferenceCount tests the number of references on a property.
type FilterReferenceCount struct {
	On string
}
