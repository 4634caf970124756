package wire

import "google.golang.org/protobuf/types/known/structpb"

// BatchObjectsRequest is one bulk-ingestion call.
type BatchObjectsRequest struct {
	Objects          []*BatchObject
	ConsistencyLevel *ConsistencyLevel
}

// BatchObject is one object in a batch. Either VectorBytes (single
// unnamed vector) or Vectors (named vectors) is set, never both.
type BatchObject struct {
	UUID        string
	Collection  string
	Tenant      string
	Properties  *BatchObjectProperties
	VectorBytes []byte
	Vectors     []*Vectors
}

// Vectors is one named vector of a batch object.
type Vectors struct {
	Name        string
	VectorBytes []byte
}

// BatchObjectProperties is the typed, flattened form of an object's
// properties. Every user property lands in exactly one bucket.
type BatchObjectProperties struct {
	NonRefProperties       *structpb.Struct
	TextArrayProperties    []*TextArrayProperties
	IntArrayProperties     []*IntArrayProperties
	NumberArrayProperties  []*NumberArrayProperties
	BooleanArrayProperties []*BooleanArrayProperties
	ObjectProperties       []*ObjectProperties
	ObjectArrayProperties  []*ObjectArrayProperties
	SingleTargetRefProps   []*SingleTargetRefProps
	MultiTargetRefProps    []*MultiTargetRefProps
	EmptyListProps         []string
}

// ObjectPropertiesValue is the embeddable encoding of one nested object.
// It has the same buckets as BatchObjectProperties minus references.
type ObjectPropertiesValue struct {
	NonRefProperties       *structpb.Struct
	TextArrayProperties    []*TextArrayProperties
	IntArrayProperties     []*IntArrayProperties
	NumberArrayProperties  []*NumberArrayProperties
	BooleanArrayProperties []*BooleanArrayProperties
	ObjectProperties       []*ObjectProperties
	ObjectArrayProperties  []*ObjectArrayProperties
	EmptyListProps         []string
}

type TextArrayProperties struct {
	PropName string
	Values   []string
}

type IntArrayProperties struct {
	PropName string
	Values   []int64
}

// NumberArrayProperties carries float64 values packed little-endian,
// eight bytes per element.
type NumberArrayProperties struct {
	PropName    string
	ValuesBytes []byte
}

type BooleanArrayProperties struct {
	PropName string
	Values   []bool
}

type ObjectProperties struct {
	PropName string
	Value    *ObjectPropertiesValue
}

type ObjectArrayProperties struct {
	PropName string
	Values   []*ObjectPropertiesValue
}

// SingleTargetRefProps lists beacons of a single-target reference property.
type SingleTargetRefProps struct {
	PropName string
	Beacons  []string
}

// MultiTargetRefProps lists beacons into one explicit target collection.
type MultiTargetRefProps struct {
	PropName         string
	Beacons          []string
	TargetCollection string
}

// BatchObjectsReply reports per-object failures by input index.
type BatchObjectsReply struct {
	Took   float32
	Errors []*BatchObjectError
}

// BatchObjectError is the failure of the object at Index.
type BatchObjectError struct {
	Index int32
	Error string
}
