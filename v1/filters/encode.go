package filters

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Encode validates a filter tree and converts it to its wire form.
// A nil filter encodes to nil.
func Encode(f Filter) (*wire.Filters, error) {
	if f == nil {
		return nil, nil
	}
	return encodeNode(f, "filters")
}

func encodeNode(f Filter, path string) (*wire.Filters, error) {
	switch n := f.(type) {
	case *Combinator:
		return encodeCombinator(n, path)
	case *Leaf:
		return encodeLeaf(n, path)
	case nil:
		return nil, errs.Input(path, "nil filter")
	default:
		return nil, errs.Input(path, "unknown filter node %T", f)
	}
}

func encodeCombinator(c *Combinator, path string) (*wire.Filters, error) {
	if c == nil {
		return nil, errs.Input(path, "nil filter")
	}
	if c.Op != wire.OperatorAnd && c.Op != wire.OperatorOr {
		return nil, errs.Input(path, "combinator operator must be And or Or, got %s", c.Op)
	}
	if len(c.Children) == 0 {
		return nil, errs.Input(path, "%s needs at least one child filter", c.Op)
	}

	out := &wire.Filters{Operator: c.Op, Filters: make([]*wire.Filters, 0, len(c.Children))}
	for i, child := range c.Children {
		enc, err := encodeNode(child, fmt.Sprintf("%s.%s[%d]", path, c.Op, i))
		if err != nil {
			return nil, err
		}
		out.Filters = append(out.Filters, enc)
	}
	return out, nil
}

func encodeLeaf(l *Leaf, path string) (*wire.Filters, error) {
	if l == nil {
		return nil, errs.Input(path, "nil filter")
	}
	if err := l.Target.validate(); err != nil {
		return nil, err
	}
	if err := checkCompatible(l); err != nil {
		return nil, err
	}

	out := &wire.Filters{Operator: l.Operator, Target: l.Target.encode()}
	setValue(out, l.Value)
	return out, nil
}

// checkCompatible enforces the operator/value shape rules.
func checkCompatible(l *Leaf) error {
	field := "filter." + l.Target.Path()
	kind := l.Value.Kind()

	if kind == KindNone {
		return errs.Input(field, "%s has no value", l.Operator)
	}
	if kind.IsArray() && l.Value.Len() == 0 {
		return errs.Input(field, "%s with an empty %s value", l.Operator, kind)
	}

	switch l.Operator {
	case wire.OperatorContainsAny, wire.OperatorContainsAll:
		if !kind.IsArray() {
			return errs.Input(field, "%s requires an array value, got %s", l.Operator, kind)
		}
	case wire.OperatorWithinGeoRange:
		if kind != KindGeo {
			return errs.Input(field, "WithinGeoRange requires a geo range, got %s", kind)
		}
	case wire.OperatorLike:
		if kind != KindText {
			return errs.Input(field, "Like requires a text pattern, got %s", kind)
		}
	case wire.OperatorIsNull:
		if kind != KindBool {
			return errs.Input(field, "IsNull requires a bool, got %s", kind)
		}
	case wire.OperatorGreaterThan, wire.OperatorGreaterThanEqual,
		wire.OperatorLessThan, wire.OperatorLessThanEqual:
		switch kind {
		case KindText, KindInt, KindNumber, KindDate:
		default:
			return errs.Input(field, "%s cannot compare a %s value", l.Operator, kind)
		}
	case wire.OperatorEqual, wire.OperatorNotEqual:
		if kind == KindGeo {
			return errs.Input(field, "%s cannot compare a geo range", l.Operator)
		}
	default:
		return errs.Input(field, "operator %s is not valid on a leaf", l.Operator)
	}

	if l.Target.Leaf == LeafCount && kind != KindInt && l.Operator != wire.OperatorIsNull {
		return errs.Input(field, "reference counts compare against int values, got %s", kind)
	}
	if l.Target.Name == idProperty {
		return checkIDs(field, l.Value)
	}
	return nil
}

func checkIDs(field string, v Value) error {
	var ids []string
	switch v.Kind() {
	case KindText:
		ids = []string{v.text}
	case KindTextArray:
		ids = v.texts
	default:
		return errs.Input(field, "object ids are text values, got %s", v.Kind())
	}
	for _, id := range ids {
		if err := uuid.Validate(id); err != nil {
			return errs.Input(field, "%q is not a valid uuid", id)
		}
	}
	return nil
}

func setValue(out *wire.Filters, v Value) {
	switch v.Kind() {
	case KindText:
		s := v.text
		out.ValueText = &s
	case KindTextArray:
		out.ValueTextArray = &wire.TextArray{Values: v.texts}
	case KindInt:
		i := v.i
		out.ValueInt = &i
	case KindIntArray:
		out.ValueIntArray = &wire.IntArray{Values: v.ints}
	case KindNumber:
		n := v.num
		out.ValueNumber = &n
	case KindNumberArray:
		out.ValueNumberArray = &wire.NumberArray{Values: v.nums}
	case KindBool:
		b := v.b
		out.ValueBoolean = &b
	case KindBoolArray:
		out.ValueBooleanArray = &wire.BooleanArray{Values: v.bools}
	case KindDate:
		s := formatDate(v.date)
		out.ValueText = &s
	case KindDateArray:
		vals := make([]string, len(v.dates))
		for i, d := range v.dates {
			vals[i] = formatDate(d)
		}
		out.ValueTextArray = &wire.TextArray{Values: vals}
	case KindGeo:
		out.ValueGeo = &wire.GeoCoordinatesFilter{
			Latitude:  v.geo.Latitude,
			Longitude: v.geo.Longitude,
			Distance:  v.geo.Distance,
		}
	}
}

// Decode converts a wire filter tree back into a Filter. Dates travel as
// text and decode as Text values; use ParseDate to recover them.
func Decode(wf *wire.Filters) (Filter, error) {
	if wf == nil {
		return nil, nil
	}
	return decodeNode(wf)
}

func decodeNode(wf *wire.Filters) (Filter, error) {
	if wf == nil {
		return nil, errs.Input("filters", "nil child filter")
	}
	if wf.Operator == wire.OperatorAnd || wf.Operator == wire.OperatorOr {
		c := &Combinator{Op: wf.Operator, Children: make([]Filter, 0, len(wf.Filters))}
		for _, child := range wf.Filters {
			f, err := decodeNode(child)
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, f)
		}
		return c, nil
	}

	t, err := DecodeTarget(wf.Target)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(wf)
	if err != nil {
		return nil, err
	}
	return &Leaf{Target: t, Operator: wf.Operator, Value: v}, nil
}

func decodeValue(wf *wire.Filters) (Value, error) {
	switch {
	case wf.ValueText != nil:
		return Text(*wf.ValueText), nil
	case wf.ValueInt != nil:
		return Int(*wf.ValueInt), nil
	case wf.ValueNumber != nil:
		return Number(*wf.ValueNumber), nil
	case wf.ValueBoolean != nil:
		return Bool(*wf.ValueBoolean), nil
	case wf.ValueTextArray != nil:
		return TextArray(wf.ValueTextArray.Values...), nil
	case wf.ValueIntArray != nil:
		return IntArray(wf.ValueIntArray.Values...), nil
	case wf.ValueNumberArray != nil:
		return NumberArray(wf.ValueNumberArray.Values...), nil
	case wf.ValueBooleanArray != nil:
		return BoolArray(wf.ValueBooleanArray.Values...), nil
	case wf.ValueGeo != nil:
		return Geo(GeoRange{
			Latitude:  wf.ValueGeo.Latitude,
			Longitude: wf.ValueGeo.Longitude,
			Distance:  wf.ValueGeo.Distance,
		}), nil
	}
	return Value{}, errs.Input("filters", "%s leaf carries no value", wf.Operator)
}

// ParseDate parses a date value as produced by Date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errs.Input("filters.date", "%q is not an RFC 3339 timestamp", s)
	}
	return t, nil
}
