// Package filters builds filter trees for searches and encodes them into
// wire.Filters.
//
// A filter is a leaf (target, operator, value) or an And/Or combinator
// over child filters:
//
//	f := filters.And(
//	    filters.ByProperty("age").GreaterThan(filters.Int(18)),
//	    filters.ByRefCount("orders").GreaterThan(filters.Int(0)),
//	)
//	wf, err := filters.Encode(f)
//
// Values are explicitly typed by their constructor (Text, Int, Number,
// Date, Geo and the array forms). Nothing is inferred from the Go value,
// so a whole-number float sent with Number stays a number on the wire.
//
// Reference paths are built in traversal order:
//
//	filters.ByRef("author").ByRefMultiTarget("employer", "Company").ByProperty("name")
//
// resolves to the path author>employer[Company]>name.
//
// Operator and value shapes are checked by Encode, which returns an
// *errs.InputError for any mismatch: ContainsAny and ContainsAll need
// array values, WithinGeoRange a geo range, Like a text pattern, IsNull
// a bool, and ordering comparisons a scalar text, int, number or date.
package filters
