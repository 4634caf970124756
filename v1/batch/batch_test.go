package batch

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/version"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

const (
	idA = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	idB = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"
	idC = "6ba7b812-9dad-11d1-80b4-00c04fd430c8"
)

func newEncoder(t *testing.T, v string, opts ...Option) *Encoder {
	t.Helper()
	return NewEncoder(version.NewSnapshot(version.MustParse(v)), opts...)
}

func TestEmptyListGoesOnlyToEmptyListProps(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	objs := []Object{
		{Collection: "Article", ID: idA, Properties: map[string]any{"title": "a", "tags": []string{"x"}}},
		{Collection: "Article", ID: idB, Properties: map[string]any{"title": "b", "tags": []string{}}},
		{Collection: "Article", ID: idC, Properties: map[string]any{"title": "c"}},
	}

	req, err := enc.Request(context.Background(), objs, wire.ConsistencyLevelUnspecified)
	require.NoError(t, err)
	require.Len(t, req.Objects, 3)
	assert.Nil(t, req.ConsistencyLevel)

	p := req.Objects[1].Properties
	assert.Equal(t, []string{"tags"}, p.EmptyListProps)
	assert.Empty(t, p.TextArrayProperties)
	assert.Empty(t, p.IntArrayProperties)
	assert.Empty(t, p.NumberArrayProperties)
	assert.Empty(t, p.BooleanArrayProperties)
	assert.Empty(t, p.ObjectArrayProperties)
	assert.NotContains(t, p.NonRefProperties.GetFields(), "tags")

	first := req.Objects[0].Properties
	require.Len(t, first.TextArrayProperties, 1)
	assert.Equal(t, "tags", first.TextArrayProperties[0].PropName)
	assert.Empty(t, first.EmptyListProps)
}

func TestEmptyListsOfEveryType(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"a": []int{},
		"b": []float64{},
		"c": []bool{},
		"d": []any{},
		"e": []map[string]any{},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out.Properties.EmptyListProps)
}

func TestEncodeAllPreservesOrder(t *testing.T) {
	enc := newEncoder(t, "1.27.0", WithConcurrency(4))
	objs := make([]Object, 50)
	for i := range objs {
		objs[i] = Object{
			Collection: "Article",
			ID:         fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
			Properties: map[string]any{"n": i},
		}
	}

	out, err := enc.EncodeAll(context.Background(), objs)
	require.NoError(t, err)
	require.Len(t, out, len(objs))
	for i, o := range out {
		assert.Equal(t, objs[i].ID, o.UUID)
		assert.Equal(t, float64(i), o.Properties.NonRefProperties.GetFields()["n"].GetNumberValue())
	}
}

func TestEncodeAllFailsAsAWhole(t *testing.T) {
	enc := newEncoder(t, "1.27.0", WithConcurrency(2))
	objs := []Object{
		{Collection: "C", ID: idA},
		{Collection: "C", ID: "not-a-uuid"},
		{Collection: "C", ID: idC},
	}

	out, err := enc.EncodeAll(context.Background(), objs)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errs.IsInputError(err))
	assert.Contains(t, err.Error(), "object 1")
}

func TestObjectsIterator(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	objs := []Object{
		{Collection: "C", ID: idA},
		{Collection: "", ID: idB},
		{Collection: "C", ID: idC},
	}

	var ids []string
	var lastErr error
	for o, err := range enc.Objects(context.Background(), objs) {
		if err != nil {
			lastErr = err
			break
		}
		ids = append(ids, o.UUID)
	}
	assert.Equal(t, []string{idA}, ids)
	require.Error(t, lastErr)
	assert.Contains(t, lastErr.Error(), "object 1")
}

func TestObjectsStopsOnCancelledContext(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for o, err := range enc.Objects(ctx, []Object{{Collection: "C", ID: idA}}) {
		assert.Nil(t, o)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestIDGeneration(t *testing.T) {
	enc := newEncoder(t, "1.27.0", WithIDGenerator(func() string { return idB }))
	out, err := enc.Encode(Object{Collection: "C"})
	require.NoError(t, err)
	assert.Equal(t, idB, out.UUID)

	out, err = newEncoder(t, "1.27.0").Encode(Object{Collection: "C"})
	require.NoError(t, err)
	assert.Len(t, out.UUID, 36)

	_, err = enc.Encode(Object{Collection: "C", ID: "nope"})
	assert.True(t, errs.IsInputError(err))
}

func TestGRPCRequired(t *testing.T) {
	_, err := newEncoder(t, "1.22.0").Encode(Object{Collection: "C", ID: idA})
	uf, ok := errs.AsUnsupportedFeature(err)
	require.True(t, ok)
	assert.Equal(t, "1.23.7", uf.MinVersion)
}

func TestReferences(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{
		Collection: "Article",
		ID:         idA,
		Properties: map[string]any{"author": To(idB)},
		References: map[string]Reference{"related": ToCollection("Blog", idB, idC)},
	})
	require.NoError(t, err)

	p := out.Properties
	require.Len(t, p.SingleTargetRefProps, 1)
	assert.Equal(t, "author", p.SingleTargetRefProps[0].PropName)
	assert.Equal(t, []string{"weaviate://localhost/" + idB}, p.SingleTargetRefProps[0].Beacons)

	require.Len(t, p.MultiTargetRefProps, 1)
	assert.Equal(t, "Blog", p.MultiTargetRefProps[0].TargetCollection)
	assert.Equal(t, []string{
		"weaviate://localhost/Blog/" + idB,
		"weaviate://localhost/Blog/" + idC,
	}, p.MultiTargetRefProps[0].Beacons)
	assert.Nil(t, p.NonRefProperties)
}

func TestReferenceErrors(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	cases := map[string]Object{
		"nested":        {Collection: "C", ID: idA, Properties: map[string]any{"meta": map[string]any{"r": To(idB)}}},
		"duplicate":     {Collection: "C", ID: idA, Properties: map[string]any{"r": "x"}, References: map[string]Reference{"r": To(idB)}},
		"no ids":        {Collection: "C", ID: idA, References: map[string]Reference{"r": To()}},
		"bad id":        {Collection: "C", ID: idA, References: map[string]Reference{"r": To("x")}},
		"no collection": {Collection: "C", ID: idA, References: map[string]Reference{"r": ToCollection("", idB)}},
	}
	for name, obj := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := enc.Encode(obj)
			assert.True(t, errs.IsInputError(err), "got %v", err)
		})
	}
}

func TestScalarsAndArrays(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"title":    "hello",
		"count":    int32(3),
		"ok":       true,
		"when":     when,
		"nothing":  nil,
		"location": GeoCoordinates{Latitude: 52.5, Longitude: 13.4},
		"phone":    PhoneNumber{Input: "030 1234", DefaultCountry: "DE"},
		"ints":     []int{1, 2},
		"scores":   []float32{0.5, 1.5, 2.5},
		"flags":    []bool{true, false},
		"dates":    []time.Time{when},
	}})
	require.NoError(t, err)

	p := out.Properties
	fields := p.NonRefProperties.GetFields()
	assert.Equal(t, "hello", fields["title"].GetStringValue())
	assert.Equal(t, float64(3), fields["count"].GetNumberValue())
	assert.True(t, fields["ok"].GetBoolValue())
	assert.Equal(t, "2024-01-02T03:04:05Z", fields["when"].GetStringValue())
	assert.IsType(t, &structpb.Value_NullValue{}, fields["nothing"].GetKind())
	assert.Equal(t, float64(52.5), fields["location"].GetStructValue().GetFields()["latitude"].GetNumberValue())
	assert.Equal(t, "DE", fields["phone"].GetStructValue().GetFields()["defaultCountry"].GetStringValue())

	require.Len(t, p.IntArrayProperties, 1)
	assert.Equal(t, []int64{1, 2}, p.IntArrayProperties[0].Values)

	require.Len(t, p.NumberArrayProperties, 1)
	nums := p.NumberArrayProperties[0]
	assert.Equal(t, "scores", nums.PropName)
	assert.Len(t, nums.ValuesBytes, 8*3)
	decoded, err := wire.UnpackFloat64(nums.ValuesBytes)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, decoded)

	require.Len(t, p.BooleanArrayProperties, 1)
	assert.Equal(t, []bool{true, false}, p.BooleanArrayProperties[0].Values)

	require.Len(t, p.TextArrayProperties, 1)
	assert.Equal(t, "dates", p.TextArrayProperties[0].PropName)
	assert.Equal(t, []string{"2024-01-02T03:04:05Z"}, p.TextArrayProperties[0].Values)
}

func TestNestedObjects(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"meta": map[string]any{"source": "web", "tags": []string{"a"}, "empty": []string{}},
		"authors": []map[string]any{
			{"name": "ada"},
			{"name": "grace"},
		},
	}})
	require.NoError(t, err)

	p := out.Properties
	require.Len(t, p.ObjectProperties, 1)
	meta := p.ObjectProperties[0]
	assert.Equal(t, "meta", meta.PropName)
	assert.Equal(t, "web", meta.Value.NonRefProperties.GetFields()["source"].GetStringValue())
	require.Len(t, meta.Value.TextArrayProperties, 1)
	assert.Equal(t, []string{"empty"}, meta.Value.EmptyListProps)

	require.Len(t, p.ObjectArrayProperties, 1)
	authors := p.ObjectArrayProperties[0]
	require.Len(t, authors.Values, 2)
	assert.Equal(t, "grace", authors.Values[1].NonRefProperties.GetFields()["name"].GetStringValue())
}

func TestAnySliceFamilies(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"texts":   []any{"a", "b"},
		"ints":    []any{1, int64(2)},
		"numbers": []any{1, 2.5},
		"bools":   []any{true},
		"objects": []any{map[string]any{"k": "v"}},
	}})
	require.NoError(t, err)

	p := out.Properties
	require.Len(t, p.TextArrayProperties, 1)
	require.Len(t, p.IntArrayProperties, 1)
	assert.Equal(t, []int64{1, 2}, p.IntArrayProperties[0].Values)
	require.Len(t, p.NumberArrayProperties, 1)
	nums, err := wire.UnpackFloat64(p.NumberArrayProperties[0].ValuesBytes)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, nums)
	require.Len(t, p.BooleanArrayProperties, 1)
	require.Len(t, p.ObjectArrayProperties, 1)

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{"mixed": []any{"a", 1}}})
	assert.True(t, errs.IsInputError(err))

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{"ch": make(chan int)}})
	assert.True(t, errs.IsInputError(err))
}

func TestAnySliceUnsignedElements(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"ints":    []any{uint(1), uint64(2), 3},
		"numbers": []any{uint64(4), 0.5},
	}})
	require.NoError(t, err)

	p := out.Properties
	require.Len(t, p.IntArrayProperties, 1)
	assert.Equal(t, []int64{1, 2, 3}, p.IntArrayProperties[0].Values)
	require.Len(t, p.NumberArrayProperties, 1)
	nums, err := wire.UnpackFloat64(p.NumberArrayProperties[0].ValuesBytes)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 0.5}, nums)

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"ints": []any{uint64(math.MaxUint64)},
	}})
	assert.True(t, errs.IsInputError(err))
}

func TestIntegerScalarsOutsideExactRange(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"max": int64(1 << 53),
		"min": int64(-(1 << 53)),
		"u":   uint64(1 << 53),
	}})
	require.NoError(t, err)
	fields := out.Properties.NonRefProperties.GetFields()
	assert.Equal(t, float64(1<<53), fields["max"].GetNumberValue())
	assert.Equal(t, float64(-(1 << 53)), fields["min"].GetNumberValue())

	for name, v := range map[string]any{
		"int64":  int64(1<<53 + 1),
		"neg":    int64(-(1<<53 + 1)),
		"uint64": uint64(math.MaxUint64),
		"int":    int(math.MaxInt64),
	} {
		_, err := enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{"n": v}})
		assert.True(t, errs.IsInputError(err), name)
	}

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"mixed": []any{int64(1<<53 + 1), 0.5},
	}})
	assert.True(t, errs.IsInputError(err))

	out, err = enc.Encode(Object{Collection: "C", ID: idA, Properties: map[string]any{
		"ints": []int64{math.MaxInt64},
	}})
	require.NoError(t, err)
	assert.Equal(t, []int64{math.MaxInt64}, out.Properties.IntArrayProperties[0].Values)
}

func TestVectors(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	out, err := enc.Encode(Object{Collection: "C", ID: idA, Vector: []float32{1, 2}})
	require.NoError(t, err)
	assert.Len(t, out.VectorBytes, 8)
	assert.Empty(t, out.Vectors)

	out, err = enc.Encode(Object{Collection: "C", ID: idA, Vectors: map[string][]float32{
		"title": {1},
		"body":  {2, 3},
	}})
	require.NoError(t, err)
	require.Len(t, out.Vectors, 2)
	assert.Equal(t, "body", out.Vectors[0].Name)
	assert.Equal(t, "title", out.Vectors[1].Name)
	assert.Nil(t, out.VectorBytes)

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Vector: []float32{1}, Vectors: map[string][]float32{"a": {1}}})
	assert.True(t, errs.IsInputError(err))

	_, err = enc.Encode(Object{Collection: "C", ID: idA, Vector: []float32{}})
	assert.True(t, errs.IsInputError(err))
}

func TestNamedVectorsGate(t *testing.T) {
	enc := newEncoder(t, "1.23.9")
	_, err := enc.Encode(Object{Collection: "C", ID: idA, Vectors: map[string][]float32{"a": {1}}})
	uf, ok := errs.AsUnsupportedFeature(err)
	require.True(t, ok)
	assert.Equal(t, "1.24.0", uf.MinVersion)
}

func TestRequest(t *testing.T) {
	enc := newEncoder(t, "1.27.0")
	_, err := enc.Request(context.Background(), nil, wire.ConsistencyLevelOne)
	assert.True(t, errs.IsInputError(err))

	req, err := enc.Request(context.Background(), []Object{{Collection: "C", ID: idA, Tenant: "acme"}}, wire.ConsistencyLevelQuorum)
	require.NoError(t, err)
	require.NotNil(t, req.ConsistencyLevel)
	assert.Equal(t, wire.ConsistencyLevelQuorum, *req.ConsistencyLevel)
	assert.Equal(t, "acme", req.Objects[0].Tenant)
}
