package batch

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// buckets is the typed partition of one property map. Every property lands
// in exactly one field.
type buckets struct {
	nonRef       map[string]*structpb.Value
	textArrays   []*wire.TextArrayProperties
	intArrays    []*wire.IntArrayProperties
	numberArrays []*wire.NumberArrayProperties
	boolArrays   []*wire.BooleanArrayProperties
	objects      []*wire.ObjectProperties
	objectArrays []*wire.ObjectArrayProperties
	singleRefs   []*wire.SingleTargetRefProps
	multiRefs    []*wire.MultiTargetRefProps
	emptyLists   []string
}

func (b *buckets) nonRefStruct() *structpb.Struct {
	if len(b.nonRef) == 0 {
		return nil
	}
	return &structpb.Struct{Fields: b.nonRef}
}

func (b *buckets) objectValue() *wire.ObjectPropertiesValue {
	return &wire.ObjectPropertiesValue{
		NonRefProperties:       b.nonRefStruct(),
		TextArrayProperties:    b.textArrays,
		IntArrayProperties:     b.intArrays,
		NumberArrayProperties:  b.numberArrays,
		BooleanArrayProperties: b.boolArrays,
		ObjectProperties:       b.objects,
		ObjectArrayProperties:  b.objectArrays,
		EmptyListProps:         b.emptyLists,
	}
}

func (b *buckets) properties() *wire.BatchObjectProperties {
	return &wire.BatchObjectProperties{
		NonRefProperties:       b.nonRefStruct(),
		TextArrayProperties:    b.textArrays,
		IntArrayProperties:     b.intArrays,
		NumberArrayProperties:  b.numberArrays,
		BooleanArrayProperties: b.boolArrays,
		ObjectProperties:       b.objects,
		ObjectArrayProperties:  b.objectArrays,
		SingleTargetRefProps:   b.singleRefs,
		MultiTargetRefProps:    b.multiRefs,
		EmptyListProps:         b.emptyLists,
	}
}

// classify partitions props into buckets. Keys are visited in sorted order
// so the output is deterministic. References are only allowed at the top
// level of an object.
func classify(field string, props map[string]any, allowRefs bool) (*buckets, error) {
	b := &buckets{nonRef: make(map[string]*structpb.Value)}
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if name == "" {
			return nil, errs.Input(field, "property name is empty")
		}
		if err := b.add(field+"."+name, name, props[name], allowRefs); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *buckets) addRef(field, name string, r Reference) error {
	beacons, err := r.beacons(field)
	if err != nil {
		return err
	}
	switch ref := r.(type) {
	case MultiTargetRef:
		b.multiRefs = append(b.multiRefs, &wire.MultiTargetRefProps{
			PropName:         name,
			Beacons:          beacons,
			TargetCollection: ref.TargetCollection,
		})
	default:
		b.singleRefs = append(b.singleRefs, &wire.SingleTargetRefProps{PropName: name, Beacons: beacons})
	}
	return nil
}

func (b *buckets) add(field, name string, value any, allowRefs bool) error {
	switch v := value.(type) {
	case nil:
		b.nonRef[name] = structpb.NewNullValue()
	case string:
		b.nonRef[name] = structpb.NewStringValue(v)
	case bool:
		b.nonRef[name] = structpb.NewBoolValue(v)
	case int:
		return b.addInteger(field, name, int64(v))
	case int8:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case int16:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case int32:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case int64:
		return b.addInteger(field, name, v)
	case uint:
		return b.addUnsigned(field, name, uint64(v))
	case uint8:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case uint16:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case uint32:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case uint64:
		return b.addUnsigned(field, name, v)
	case float32:
		b.nonRef[name] = structpb.NewNumberValue(float64(v))
	case float64:
		b.nonRef[name] = structpb.NewNumberValue(v)
	case time.Time:
		b.nonRef[name] = structpb.NewStringValue(formatDate(v))
	case uuid.UUID:
		b.nonRef[name] = structpb.NewStringValue(v.String())
	case GeoCoordinates:
		b.nonRef[name] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"latitude":  structpb.NewNumberValue(float64(v.Latitude)),
			"longitude": structpb.NewNumberValue(float64(v.Longitude)),
		}})
	case PhoneNumber:
		fields := map[string]*structpb.Value{"input": structpb.NewStringValue(v.Input)}
		if v.DefaultCountry != "" {
			fields["defaultCountry"] = structpb.NewStringValue(v.DefaultCountry)
		}
		b.nonRef[name] = structpb.NewStructValue(&structpb.Struct{Fields: fields})

	case Reference:
		if !allowRefs {
			return errs.Input(field, "references are not allowed inside nested objects")
		}
		return b.addRef(field, name, v)

	case map[string]any:
		nested, err := classify(field, v, false)
		if err != nil {
			return err
		}
		b.objects = append(b.objects, &wire.ObjectProperties{PropName: name, Value: nested.objectValue()})

	case []string:
		b.addTexts(name, v)
	case []time.Time:
		b.addTexts(name, lo.Map(v, func(t time.Time, _ int) string { return formatDate(t) }))
	case []uuid.UUID:
		b.addTexts(name, lo.Map(v, func(id uuid.UUID, _ int) string { return id.String() }))
	case []bool:
		b.addBools(name, v)
	case []int:
		b.addInts(name, lo.Map(v, func(i int, _ int) int64 { return int64(i) }))
	case []int32:
		b.addInts(name, lo.Map(v, func(i int32, _ int) int64 { return int64(i) }))
	case []int64:
		b.addInts(name, v)
	case []float32:
		b.addNumbers(name, lo.Map(v, func(f float32, _ int) float64 { return float64(f) }))
	case []float64:
		b.addNumbers(name, v)
	case []map[string]any:
		return b.addObjects(field, name, v)
	case []any:
		return b.addAnySlice(field, name, v)

	default:
		return errs.Input(field, "unsupported property type %T", value)
	}
	return nil
}

// maxExactInteger bounds the integers a float64 scalar carries without
// rounding. Integer lists travel as int64 and are not limited by it.
const maxExactInteger = 1 << 53

func (b *buckets) addInteger(field, name string, v int64) error {
	if v > maxExactInteger || v < -maxExactInteger {
		return errs.Input(field, "integer %d is outside the exactly representable range of a number property (±2^53)", v)
	}
	b.nonRef[name] = structpb.NewNumberValue(float64(v))
	return nil
}

func (b *buckets) addUnsigned(field, name string, v uint64) error {
	if v > maxExactInteger {
		return errs.Input(field, "integer %d is outside the exactly representable range of a number property (±2^53)", v)
	}
	return b.addInteger(field, name, int64(v))
}

func (b *buckets) addTexts(name string, v []string) {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return
	}
	b.textArrays = append(b.textArrays, &wire.TextArrayProperties{PropName: name, Values: v})
}

func (b *buckets) addBools(name string, v []bool) {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return
	}
	b.boolArrays = append(b.boolArrays, &wire.BooleanArrayProperties{PropName: name, Values: v})
}

func (b *buckets) addInts(name string, v []int64) {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return
	}
	b.intArrays = append(b.intArrays, &wire.IntArrayProperties{PropName: name, Values: v})
}

func (b *buckets) addNumbers(name string, v []float64) {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return
	}
	b.numberArrays = append(b.numberArrays, &wire.NumberArrayProperties{
		PropName:    name,
		ValuesBytes: wire.PackFloat64(v),
	})
}

func (b *buckets) addObjects(field, name string, v []map[string]any) error {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return nil
	}
	values := make([]*wire.ObjectPropertiesValue, 0, len(v))
	for _, obj := range v {
		nested, err := classify(field, obj, false)
		if err != nil {
			return err
		}
		values = append(values, nested.objectValue())
	}
	b.objectArrays = append(b.objectArrays, &wire.ObjectArrayProperties{PropName: name, Values: values})
	return nil
}

// addAnySlice classifies a []any by the type of its elements, which must
// all fall into one family. Ints and floats mixed together widen to numbers.
func (b *buckets) addAnySlice(field, name string, v []any) error {
	if len(v) == 0 {
		b.emptyLists = append(b.emptyLists, name)
		return nil
	}
	for i, e := range v {
		if !fitsInt64(e) {
			return errs.Input(field, "list element %d overflows int64", i)
		}
	}

	switch elementFamily(v) {
	case familyText:
		b.addTexts(name, lo.Map(v, func(e any, _ int) string {
			if t, ok := e.(time.Time); ok {
				return formatDate(t)
			}
			return e.(string)
		}))
	case familyBool:
		b.addBools(name, lo.Map(v, func(e any, _ int) bool { return e.(bool) }))
	case familyInt:
		b.addInts(name, lo.Map(v, func(e any, _ int) int64 { i, _ := asInt64(e); return i }))
	case familyNumber:
		numbers := make([]float64, len(v))
		for i, e := range v {
			if n, ok := asInt64(e); ok && (n > maxExactInteger || n < -maxExactInteger) {
				return errs.Input(field, "list element %d (%d) loses precision when widened to a number", i, n)
			}
			numbers[i], _ = asFloat64(e)
		}
		b.addNumbers(name, numbers)
	case familyObject:
		return b.addObjects(field, name, lo.Map(v, func(e any, _ int) map[string]any { return e.(map[string]any) }))
	default:
		return errs.Input(field, "list elements must share one type")
	}
	return nil
}

type family int

const (
	familyMixed family = iota
	familyText
	familyBool
	familyInt
	familyNumber
	familyObject
)

func elementFamily(v []any) family {
	fam := familyOf(v[0])
	for _, e := range v[1:] {
		f := familyOf(e)
		switch {
		case f == fam:
		case isNumeric(f) && isNumeric(fam):
			fam = familyNumber
		default:
			return familyMixed
		}
	}
	return fam
}

func isNumeric(f family) bool { return f == familyInt || f == familyNumber }

func familyOf(e any) family {
	switch e.(type) {
	case string, time.Time:
		return familyText
	case bool:
		return familyBool
	case map[string]any:
		return familyObject
	}
	if _, ok := asInt64(e); ok {
		return familyInt
	}
	if _, ok := asFloat64(e); ok {
		return familyNumber
	}
	return familyMixed
}

func asInt64(e any) (int64, bool) {
	switch n := e.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}

func fitsInt64(e any) bool {
	switch n := e.(type) {
	case uint:
		return uint64(n) <= math.MaxInt64
	case uint64:
		return n <= math.MaxInt64
	}
	return true
}

func asFloat64(e any) (float64, bool) {
	switch n := e.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if i, ok := asInt64(e); ok {
		return float64(i), true
	}
	return 0, false
}

func formatDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
