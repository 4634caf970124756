package batch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/vectorwire/v1/errs"
)

// beaconPrefix is the host part of every beacon the server accepts.
const beaconPrefix = "weaviate://localhost/"

// Object is one object to insert.
type Object struct {
	Collection string
	Tenant     string
	// ID is generated (UUID v4) when empty.
	ID string
	// Properties maps property names to values. Reference values
	// (SingleTargetRef, MultiTargetRef) are accepted here too. Scalar
	// integers are sent as float64 and must lie within ±2^53; integer
	// lists are sent as int64.
	Properties map[string]any
	References map[string]Reference
	// Vector is the default vector; Vectors holds named vectors. At most
	// one of them may be set.
	Vector  []float32
	Vectors map[string][]float32
}

// GeoCoordinates is a geo property value.
type GeoCoordinates struct {
	Latitude  float32
	Longitude float32
}

// PhoneNumber is a phone number property value. The server parses Input,
// using DefaultCountry (ISO 3166-1 alpha-2) for national numbers.
type PhoneNumber struct {
	Input          string
	DefaultCountry string
}

// Reference is the value of a reference property.
type Reference interface {
	beacons(field string) ([]string, error)
}

// SingleTargetRef links to objects of the property's only target
// collection.
type SingleTargetRef struct {
	IDs []string
}

// MultiTargetRef links to objects of one collection of a multi-target
// reference property.
type MultiTargetRef struct {
	TargetCollection string
	IDs              []string
}

// To is a single-target reference to ids.
func To(ids ...string) SingleTargetRef {
	return SingleTargetRef{IDs: ids}
}

// ToCollection is a multi-target reference to ids in collection.
func ToCollection(collection string, ids ...string) MultiTargetRef {
	return MultiTargetRef{TargetCollection: collection, IDs: ids}
}

func (r SingleTargetRef) beacons(field string) ([]string, error) {
	return buildBeacons(field, "", r.IDs)
}

func (r MultiTargetRef) beacons(field string) ([]string, error) {
	if r.TargetCollection == "" {
		return nil, errs.Input(field, "multi-target reference needs a target collection")
	}
	return buildBeacons(field, r.TargetCollection, r.IDs)
}

func buildBeacons(field, collection string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, errs.Input(field, "reference has no target ids")
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := uuid.Validate(id); err != nil {
			return nil, errs.Input(field, "%q is not a valid uuid", id)
		}
		if collection == "" {
			out = append(out, beaconPrefix+id)
			continue
		}
		out = append(out, fmt.Sprintf("%s%s/%s", beaconPrefix, collection, id))
	}
	return out, nil
}
