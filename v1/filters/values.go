package filters

import (
	"time"
)

// ValueKind is the shape of a filter test value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindText
	KindTextArray
	KindInt
	KindIntArray
	KindNumber
	KindNumberArray
	KindBool
	KindBoolArray
	KindDate
	KindDateArray
	KindGeo
)

var kindNames = map[ValueKind]string{
	KindNone:        "none",
	KindText:        "text",
	KindTextArray:   "text[]",
	KindInt:         "int",
	KindIntArray:    "int[]",
	KindNumber:      "number",
	KindNumberArray: "number[]",
	KindBool:        "bool",
	KindBoolArray:   "bool[]",
	KindDate:        "date",
	KindDateArray:   "date[]",
	KindGeo:         "geoRange",
}

func (k ValueKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsArray reports whether k is one of the array shapes.
func (k ValueKind) IsArray() bool {
	switch k {
	case KindTextArray, KindIntArray, KindNumberArray, KindBoolArray, KindDateArray:
		return true
	}
	return false
}

// GeoRange is the WithinGeoRange test value: a circle around a point.
// Distance is in meters.
type GeoRange struct {
	Latitude  float32
	Longitude float32
	Distance  float32
}

// Value is a filter test value whose shape is fixed by the constructor that
// built it. There is no inference: Number(2) stays a number, Int(2) an int.
//
// The zero Value has KindNone and is rejected by every operator.
type Value struct {
	kind  ValueKind
	text  string
	texts []string
	i     int64
	ints  []int64
	num   float64
	nums  []float64
	b     bool
	bools []bool
	date  time.Time
	dates []time.Time
	geo   GeoRange
}

func Text(s string) Value { return Value{kind: KindText, text: s} }

func TextArray(s ...string) Value { return Value{kind: KindTextArray, texts: append([]string(nil), s...)} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

func IntArray(i ...int64) Value { return Value{kind: KindIntArray, ints: append([]int64(nil), i...)} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func NumberArray(f ...float64) Value {
	return Value{kind: KindNumberArray, nums: append([]float64(nil), f...)}
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func BoolArray(b ...bool) Value { return Value{kind: KindBoolArray, bools: append([]bool(nil), b...)} }

// Date is sent as an RFC 3339 string with nanoseconds.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

func DateArray(t ...time.Time) Value {
	return Value{kind: KindDateArray, dates: append([]time.Time(nil), t...)}
}

func Geo(g GeoRange) Value { return Value{kind: KindGeo, geo: g} }

// Kind returns the shape of v.
func (v Value) Kind() ValueKind { return v.kind }

// Len returns the element count of an array value, 1 for scalars and 0
// for the zero Value.
func (v Value) Len() int {
	switch v.kind {
	case KindNone:
		return 0
	case KindTextArray:
		return len(v.texts)
	case KindIntArray:
		return len(v.ints)
	case KindNumberArray:
		return len(v.nums)
	case KindBoolArray:
		return len(v.bools)
	case KindDateArray:
		return len(v.dates)
	}
	return 1
}

// Interface returns the Go value held by v.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindTextArray:
		return v.texts
	case KindInt:
		return v.i
	case KindIntArray:
		return v.ints
	case KindNumber:
		return v.num
	case KindNumberArray:
		return v.nums
	case KindBool:
		return v.b
	case KindBoolArray:
		return v.bools
	case KindDate:
		return v.date
	case KindDateArray:
		return v.dates
	case KindGeo:
		return v.geo
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
