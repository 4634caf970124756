package filters

import (
	"testing"
	"time"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

func TestEncode_NilFilter(t *testing.T) {
	wf, err := Encode(nil)
	if err != nil || wf != nil {
		t.Fatalf("expected nil, nil; got %v, %v", wf, err)
	}
}

func TestEncode_AndOfPropertyAndRefCount(t *testing.T) {
	f := And(
		ByProperty("age").GreaterThan(Int(18)),
		ByRefCount("orders").GreaterThan(Int(0)),
	)
	wf, err := Encode(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.Operator != wire.OperatorAnd {
		t.Fatalf("expected And, got %s", wf.Operator)
	}
	if len(wf.Filters) != 2 {
		t.Fatalf("expected 2 children, got %d", len(wf.Filters))
	}

	age := wf.Filters[0]
	if age.Target == nil || age.Target.Property != "age" {
		t.Errorf("first child target = %+v, want Property(age)", age.Target)
	}
	if age.Operator != wire.OperatorGreaterThan || age.ValueInt == nil || *age.ValueInt != 18 {
		t.Errorf("first child = %+v", age)
	}
	if len(age.Filters) != 0 {
		t.Errorf("leaf should have no children")
	}

	orders := wf.Filters[1]
	if orders.Target == nil || orders.Target.Count == nil || orders.Target.Count.On != "orders" {
		t.Errorf("second child target = %+v, want ReferenceCount(orders)", orders.Target)
	}
	if orders.Target.Property != "" {
		t.Errorf("count target must not also carry a property")
	}
}

func TestEncode_NestedCombinators(t *testing.T) {
	f := Or(
		And(
			ByProperty("a").Equal(Text("x")),
			Or(ByProperty("b").Equal(Bool(true))),
		),
		ByProperty("c").LessThan(Number(2)),
	)
	wf, err := Encode(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.Operator != wire.OperatorOr || len(wf.Filters) != 2 {
		t.Fatalf("unexpected root %+v", wf)
	}
	inner := wf.Filters[0]
	if inner.Operator != wire.OperatorAnd || len(inner.Filters) != 2 {
		t.Fatalf("unexpected inner %+v", inner)
	}
	if inner.Filters[1].Operator != wire.OperatorOr || !*inner.Filters[1].Filters[0].ValueBoolean {
		t.Errorf("unexpected innermost node %+v", inner.Filters[1])
	}
	if c := wf.Filters[1]; c.ValueNumber == nil || *c.ValueNumber != 2 || c.ValueInt != nil {
		t.Errorf("Number(2) must encode as a number, got %+v", c)
	}
}

func TestEncode_EmptyCombinator(t *testing.T) {
	_, err := Encode(And())
	if !errs.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestEncode_ErrorInDeepChild(t *testing.T) {
	f := And(
		ByProperty("ok").Equal(Int(1)),
		Or(ByProperty("tags").ContainsAny(Text("single"))),
	)
	_, err := Encode(f)
	if !errs.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestEncode_OperatorValueCompatibility(t *testing.T) {
	geo := GeoRange{Latitude: 52.5, Longitude: 13.4, Distance: 2000}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		f    Filter
		ok   bool
	}{
		{"contains any text array", ByProperty("tags").ContainsAny(TextArray("a", "b")), true},
		{"contains all int array", ByProperty("ids").ContainsAll(IntArray(1, 2)), true},
		{"contains any scalar", ByProperty("tags").ContainsAny(Text("a")), false},
		{"contains any empty array", ByProperty("tags").ContainsAny(TextArray()), false},
		{"geo range", ByProperty("loc").WithinGeoRange(geo), true},
		{"geo with equal", ByProperty("loc").Equal(Geo(geo)), false},
		{"like text", ByProperty("name").Like("Jo*"), true},
		{"like int", (&Where{target: Target{Name: "name"}}).leaf(wire.OperatorLike, Int(1)), false},
		{"is null", ByProperty("name").IsNull(true), true},
		{"is null text", (&Where{target: Target{Name: "name"}}).leaf(wire.OperatorIsNull, Text("x")), false},
		{"greater than date", ByCreationTime().After(now), true},
		{"greater than bool", ByProperty("flag").GreaterThan(Bool(true)), false},
		{"less than array", ByProperty("n").LessThan(NumberArray(1, 2)), false},
		{"equal array", ByProperty("tags").Equal(TextArray("a")), true},
		{"zero value", ByProperty("x").Equal(Value{}), false},
		{"count with int", ByRefCount("orders").LessOrEqual(Int(3)), true},
		{"count with number", ByRefCount("orders").Equal(Number(3)), false},
		{"id valid", ByID().Equal(Text("6ba7b810-9dad-11d1-80b4-00c04fd430c8")), true},
		{"id invalid", ByID().Equal(Text("not-a-uuid")), false},
		{"id list", ByID().ContainsAny(TextArray("6ba7b810-9dad-11d1-80b4-00c04fd430c8")), true},
		{"empty property name", ByProperty("").Equal(Int(1)), false},
		{"combinator operator on leaf", (&Where{target: Target{Name: "x"}}).leaf(wire.OperatorAnd, Int(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.f)
			if tt.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tt.ok && !errs.IsInputError(err) {
				t.Fatalf("expected input error, got %v", err)
			}
		})
	}
}

func TestEncode_ValueShapes(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

	wf, err := Encode(ByProperty("d").Equal(Date(when)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.ValueText == nil || *wf.ValueText != "2024-01-02T03:04:05.000000006Z" {
		t.Errorf("date encoded as %v", wf.ValueText)
	}

	wf, err = Encode(ByProperty("ds").ContainsAny(DateArray(when, when.Add(time.Hour))))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.ValueTextArray == nil || len(wf.ValueTextArray.Values) != 2 {
		t.Fatalf("date array encoded as %+v", wf.ValueTextArray)
	}

	wf, err = Encode(ByProperty("loc").WithinGeoRange(GeoRange{Latitude: 1, Longitude: 2, Distance: 3}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.ValueGeo == nil || wf.ValueGeo.Distance != 3 {
		t.Errorf("geo encoded as %+v", wf.ValueGeo)
	}

	wf, err = Encode(ByProperty("flags").ContainsAll(BoolArray(true, false)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wf.ValueBooleanArray == nil || len(wf.ValueBooleanArray.Values) != 2 {
		t.Errorf("bool array encoded as %+v", wf.ValueBooleanArray)
	}
}

func TestEncode_ReferenceChainOuterToInner(t *testing.T) {
	f := ByRef("author").ByRefMultiTarget("employer", "Company").ByProperty("name").Equal(Text("ACME"))
	wf, err := Encode(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	outer := wf.Target.SingleTarget
	if outer == nil || outer.On != "author" {
		t.Fatalf("outer hop = %+v, want single-target on author", wf.Target)
	}
	mid := outer.Target.MultiTarget
	if mid == nil || mid.On != "employer" || mid.TargetCollection != "Company" {
		t.Fatalf("middle hop = %+v, want multi-target employer->Company", outer.Target)
	}
	if mid.Target == nil || mid.Target.Property != "name" {
		t.Fatalf("leaf = %+v, want Property(name)", mid.Target)
	}
}

func TestRefPathPrefixIsNotShared(t *testing.T) {
	base := ByRef("author")
	a := base.ByRef("publisher").ByProperty("name").Target()
	b := base.ByRef("agent").ByProperty("name").Target()

	if a.Path() != "author>publisher>name" {
		t.Errorf("a = %s", a.Path())
	}
	if b.Path() != "author>agent>name" {
		t.Errorf("b = %s", b.Path())
	}
}

func TestTargetRoundTrip(t *testing.T) {
	targets := []*Where{
		ByProperty("title"),
		ByRefCount("orders"),
		ByID(),
		ByPropertyLength("title"),
		ByRef("author").ByProperty("name"),
		ByRef("author").ByRefCount("books"),
		ByRefMultiTarget("linked", "Article").ByRef("author").ByRefMultiTarget("employer", "Company").ByUpdateTime(),
	}

	for _, w := range targets {
		want := w.Target()
		t.Run(want.Path(), func(t *testing.T) {
			got, err := DecodeTarget(want.encode())
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.Equal(want) {
				t.Fatalf("round trip: got %s, want %s", got.Path(), want.Path())
			}
		})
	}
}

func TestFilterRoundTrip(t *testing.T) {
	f := And(
		ByProperty("age").GreaterOrEqual(Int(21)),
		Or(
			ByRef("author").ByProperty("name").Like("A*"),
			ByRefCount("orders").Equal(Int(0)),
		),
	)
	wf, err := Encode(f)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(wf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := Encode(back)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}

	root := again.Filters
	if len(root) != 2 || root[1].Operator != wire.OperatorOr {
		t.Fatalf("unexpected tree %+v", again)
	}
	leaf := back.(*Combinator).Children[1].(*Combinator).Children[0].(*Leaf)
	if leaf.Target.Path() != "author>name" || leaf.Operator != wire.OperatorLike {
		t.Errorf("decoded leaf = %s %s", leaf.Target.Path(), leaf.Operator)
	}
}

func TestDecodeTarget_DanglingReference(t *testing.T) {
	wt := &wire.FilterTarget{SingleTarget: &wire.FilterReferenceSingleTarget{On: "author"}}
	if _, err := DecodeTarget(wt); !errs.IsInputError(err) {
		t.Fatalf("expected input error, got %v", err)
	}

	if _, err := DecodeTarget(&wire.FilterTarget{}); !errs.IsInputError(err) {
		t.Fatalf("expected input error for empty node, got %v", err)
	}
}

func TestTargetPath(t *testing.T) {
	got := ByRef("a").ByRefMultiTarget("b", "B").ByRefCount("c").Target().Path()
	if got != "a>b[B]>c#count" {
		t.Errorf("path = %s", got)
	}
}

func TestParseDate(t *testing.T) {
	when := time.Date(2023, 7, 8, 9, 10, 11, 0, time.UTC)
	got, err := ParseDate(formatDate(when))
	if err != nil || !got.Equal(when) {
		t.Fatalf("ParseDate = %v, %v", got, err)
	}
	if _, err := ParseDate("yesterday"); !errs.IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
}
