package wire

import (
	"strings"

	protocol "github.com/weaviate/weaviate/grpc/generated/protocol/v1"
)

// The enums in this package use the protocol's numbering, so conversions
// below are plain casts.

// ToProto converts r into the server's protobuf message.
func (r *SearchRequest) ToProto() *protocol.SearchRequest {
	if r == nil {
		return nil
	}
	out := &protocol.SearchRequest{
		Collection:       r.Collection,
		Tenant:           r.Tenant,
		ConsistencyLevel: convertConsistency(r.ConsistencyLevel),
		Properties:       convertPropertiesRequest(r.Properties),
		Metadata:         convertMetadataRequest(r.Metadata),
		Limit:            r.Limit,
		Offset:           r.Offset,
		Autocut:          r.Autocut,
		After:            r.After,
		Filters:          r.Filters.ToProto(),
		HybridSearch:     convertHybrid(r.HybridSearch),
		Bm25Search:       convertBM25(r.BM25Search),
		NearVector:       convertNearVector(r.NearVector),
		NearObject:       convertNearObject(r.NearObject),
		NearText:         convertNearText(r.NearText),
		Uses_123Api:      r.Uses123API,
		Uses_125Api:      r.Uses125API,
		Uses_127Api:      r.Uses127API,
	}
	if r.GroupBy != nil {
		out.GroupBy = &protocol.GroupBy{
			Path:            r.GroupBy.Path,
			NumberOfGroups:  r.GroupBy.NumberOfGroups,
			ObjectsPerGroup: r.GroupBy.ObjectsPerGroup,
		}
	}
	for _, s := range r.SortBy {
		out.SortBy = append(out.SortBy, &protocol.SortBy{Ascending: s.Ascending, Path: s.Path})
	}
	if m := r.NearImage; m != nil {
		out.NearImage = &protocol.NearImageSearch{Image: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if m := r.NearAudio; m != nil {
		out.NearAudio = &protocol.NearAudioSearch{Audio: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if m := r.NearVideo; m != nil {
		out.NearVideo = &protocol.NearVideoSearch{Video: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if m := r.NearDepth; m != nil {
		out.NearDepth = &protocol.NearDepthSearch{Depth: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if m := r.NearThermal; m != nil {
		out.NearThermal = &protocol.NearThermalSearch{Thermal: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if m := r.NearIMU; m != nil {
		out.NearImu = &protocol.NearIMUSearch{Imu: m.Media, Certainty: m.Certainty, Distance: m.Distance, Targets: m.Targets.ToProto()}
	}
	if g := r.Generative; g != nil {
		out.Generative = &protocol.GenerativeSearch{
			SingleResponsePrompt: g.SingleResponsePrompt,
			GroupedResponseTask:  g.GroupedResponseTask,
			GroupedProperties:    g.GroupedProperties,
		}
	}
	if rr := r.Rerank; rr != nil {
		out.Rerank = &protocol.Rerank{Property: rr.Property, Query: rr.Query}
	}
	return out
}

func convertConsistency(l *ConsistencyLevel) *protocol.ConsistencyLevel {
	if l == nil {
		return nil
	}
	v := protocol.ConsistencyLevel(*l)
	return &v
}

func convertMetadataRequest(m *MetadataRequest) *protocol.MetadataRequest {
	if m == nil {
		return nil
	}
	return &protocol.MetadataRequest{
		Uuid:               m.UUID,
		Vector:             m.Vector,
		CreationTimeUnix:   m.CreationTimeUnix,
		LastUpdateTimeUnix: m.LastUpdateTimeUnix,
		Distance:           m.Distance,
		Certainty:          m.Certainty,
		Score:              m.Score,
		ExplainScore:       m.ExplainScore,
		IsConsistent:       m.IsConsistent,
		Vectors:            m.Vectors,
	}
}

func convertPropertiesRequest(p *PropertiesRequest) *protocol.PropertiesRequest {
	if p == nil {
		return nil
	}
	out := &protocol.PropertiesRequest{
		NonRefProperties:          p.NonRefProperties,
		ReturnAllNonrefProperties: p.ReturnAllNonrefProperties,
		ObjectProperties:          convertObjectPropertiesRequests(p.ObjectProperties),
	}
	for _, ref := range p.RefProperties {
		out.RefProperties = append(out.RefProperties, &protocol.RefPropertiesRequest{
			ReferenceProperty: ref.ReferenceProperty,
			Properties:        convertPropertiesRequest(ref.Properties),
			Metadata:          convertMetadataRequest(ref.Metadata),
			TargetCollection:  ref.TargetCollection,
		})
	}
	return out
}

func convertObjectPropertiesRequests(in []*ObjectPropertiesRequest) []*protocol.ObjectPropertiesRequest {
	if len(in) == 0 {
		return nil
	}
	out := make([]*protocol.ObjectPropertiesRequest, 0, len(in))
	for _, o := range in {
		out = append(out, &protocol.ObjectPropertiesRequest{
			PropName:            o.PropName,
			PrimitiveProperties: o.PrimitiveProperties,
			ObjectProperties:    convertObjectPropertiesRequests(o.ObjectProperties),
		})
	}
	return out
}

// ToProto converts t into the protocol's target descriptor.
func (t *Targets) ToProto() *protocol.Targets {
	if t == nil {
		return nil
	}
	out := &protocol.Targets{
		TargetVectors: t.TargetVectors,
		Combination:   protocol.CombinationMethod(t.Combination),
		Weights:       t.Weights,
	}
	for _, w := range t.WeightsForTargets {
		out.WeightsForTargets = append(out.WeightsForTargets, &protocol.WeightsForTarget{Target: w.Target, Weight: w.Weight})
	}
	return out
}

func convertSearchOperator(o *SearchOperatorOptions) *protocol.SearchOperatorOptions {
	if o == nil {
		return nil
	}
	return &protocol.SearchOperatorOptions{
		Operator:             protocol.SearchOperatorOptions_Operator(o.Operator),
		MinimumOrTokensMatch: o.MinimumOrTokensMatch,
	}
}

func convertBM25(b *BM25) *protocol.BM25 {
	if b == nil {
		return nil
	}
	return &protocol.BM25{
		Query:          b.Query,
		Properties:     b.Properties,
		SearchOperator: convertSearchOperator(b.SearchOperator),
	}
}

func convertHybrid(h *Hybrid) *protocol.Hybrid {
	if h == nil {
		return nil
	}
	out := &protocol.Hybrid{
		Query:              h.Query,
		Properties:         h.Properties,
		Alpha:              h.Alpha,
		FusionType:         protocol.Hybrid_FusionType(h.FusionType),
		VectorBytes:        h.VectorBytes,
		Targets:            h.Targets.ToProto(),
		NearText:           convertNearText(h.NearText),
		NearVector:         convertNearVector(h.NearVector),
		Bm25SearchOperator: convertSearchOperator(h.BM25Operator),
	}
	if h.VectorDistance != nil {
		out.Threshold = &protocol.Hybrid_VectorDistance{VectorDistance: *h.VectorDistance}
	}
	return out
}

func convertNearVector(n *NearVector) *protocol.NearVector {
	if n == nil {
		return nil
	}
	out := &protocol.NearVector{
		Certainty:       n.Certainty,
		Distance:        n.Distance,
		VectorBytes:     n.VectorBytes,
		Targets:         n.Targets.ToProto(),
		VectorPerTarget: n.VectorPerTarget,
	}
	for _, v := range n.VectorForTargets {
		out.VectorForTargets = append(out.VectorForTargets, &protocol.VectorForTarget{Name: v.Name, VectorBytes: v.VectorBytes})
	}
	return out
}

func convertNearObject(n *NearObject) *protocol.NearObject {
	if n == nil {
		return nil
	}
	return &protocol.NearObject{
		Id:        n.ID,
		Certainty: n.Certainty,
		Distance:  n.Distance,
		Targets:   n.Targets.ToProto(),
	}
}

func convertMove(m *Move) *protocol.NearTextSearch_Move {
	if m == nil {
		return nil
	}
	return &protocol.NearTextSearch_Move{Force: m.Force, Concepts: m.Concepts, Uuids: m.UUIDs}
}

func convertNearText(n *NearTextSearch) *protocol.NearTextSearch {
	if n == nil {
		return nil
	}
	return &protocol.NearTextSearch{
		Query:     n.Query,
		Certainty: n.Certainty,
		Distance:  n.Distance,
		MoveTo:    convertMove(n.MoveTo),
		MoveAway:  convertMove(n.MoveAway),
		Targets:   n.Targets.ToProto(),
	}
}

// ToProto converts a filter tree into the protocol's Filters message.
func (f *Filters) ToProto() *protocol.Filters {
	if f == nil {
		return nil
	}
	out := &protocol.Filters{
		Operator: protocol.Filters_Operator(f.Operator),
		Target:   f.Target.ToProto(),
	}
	for _, child := range f.Filters {
		out.Filters = append(out.Filters, child.ToProto())
	}
	switch {
	case f.ValueText != nil:
		out.TestValue = &protocol.Filters_ValueText{ValueText: *f.ValueText}
	case f.ValueInt != nil:
		out.TestValue = &protocol.Filters_ValueInt{ValueInt: *f.ValueInt}
	case f.ValueBoolean != nil:
		out.TestValue = &protocol.Filters_ValueBoolean{ValueBoolean: *f.ValueBoolean}
	case f.ValueNumber != nil:
		out.TestValue = &protocol.Filters_ValueNumber{ValueNumber: *f.ValueNumber}
	case f.ValueTextArray != nil:
		out.TestValue = &protocol.Filters_ValueTextArray{ValueTextArray: &protocol.TextArray{Values: f.ValueTextArray.Values}}
	case f.ValueIntArray != nil:
		out.TestValue = &protocol.Filters_ValueIntArray{ValueIntArray: &protocol.IntArray{Values: f.ValueIntArray.Values}}
	case f.ValueBooleanArray != nil:
		out.TestValue = &protocol.Filters_ValueBooleanArray{ValueBooleanArray: &protocol.BooleanArray{Values: f.ValueBooleanArray.Values}}
	case f.ValueNumberArray != nil:
		out.TestValue = &protocol.Filters_ValueNumberArray{ValueNumberArray: &protocol.NumberArray{Values: f.ValueNumberArray.Values}}
	case f.ValueGeo != nil:
		out.TestValue = &protocol.Filters_ValueGeo{ValueGeo: &protocol.GeoCoordinatesFilter{
			Latitude:  f.ValueGeo.Latitude,
			Longitude: f.ValueGeo.Longitude,
			Distance:  f.ValueGeo.Distance,
		}}
	}
	return out
}

// ToProto converts a filter target, following reference hops.
func (t *FilterTarget) ToProto() *protocol.FilterTarget {
	if t == nil {
		return nil
	}
	switch {
	case t.SingleTarget != nil:
		return &protocol.FilterTarget{Target: &protocol.FilterTarget_SingleTarget{
			SingleTarget: &protocol.FilterReferenceSingleTarget{On: t.SingleTarget.On, Target: t.SingleTarget.Target.ToProto()},
		}}
	case t.MultiTarget != nil:
		return &protocol.FilterTarget{Target: &protocol.FilterTarget_MultiTarget{
			MultiTarget: &protocol.FilterReferenceMultiTarget{
				On:               t.MultiTarget.On,
				Target:           t.MultiTarget.Target.ToProto(),
				TargetCollection: t.MultiTarget.TargetCollection,
			},
		}}
	case t.Count != nil:
		return &protocol.FilterTarget{Target: &protocol.FilterTarget_Count{
			Count: &protocol.FilterReferenceCount{On: t.Count.On},
		}}
	default:
		return &protocol.FilterTarget{Target: &protocol.FilterTarget_Property{Property: t.Property}}
	}
}

// SearchReplyFromProto extracts the reply summary and keeps the message for
// result decoding.
func SearchReplyFromProto(r *protocol.SearchReply) *SearchReply {
	out := &SearchReply{Took: r.GetTook(), Proto: r}
	for _, res := range r.GetResults() {
		m := res.GetMetadata()
		out.Results = append(out.Results, SearchResult{
			ID:        m.GetId(),
			Distance:  m.GetDistance(),
			Certainty: m.GetCertainty(),
			Score:     m.GetScore(),
		})
	}
	return out
}

// ToProto converts a batch into the protocol's BatchObjectsRequest.
// Reference beacons are reduced to the object UUIDs the protocol carries.
func (r *BatchObjectsRequest) ToProto() *protocol.BatchObjectsRequest {
	if r == nil {
		return nil
	}
	out := &protocol.BatchObjectsRequest{
		Objects:          make([]*protocol.BatchObject, 0, len(r.Objects)),
		ConsistencyLevel: convertConsistency(r.ConsistencyLevel),
	}
	for _, o := range r.Objects {
		out.Objects = append(out.Objects, convertBatchObject(o))
	}
	return out
}

func convertBatchObject(o *BatchObject) *protocol.BatchObject {
	out := &protocol.BatchObject{
		Uuid:        o.UUID,
		Collection:  o.Collection,
		Tenant:      o.Tenant,
		VectorBytes: o.VectorBytes,
	}
	for _, v := range o.Vectors {
		out.Vectors = append(out.Vectors, &protocol.Vectors{Name: v.Name, VectorBytes: v.VectorBytes})
	}
	if p := o.Properties; p != nil {
		out.Properties = &protocol.BatchObject_Properties{
			NonRefProperties:       p.NonRefProperties,
			TextArrayProperties:    convertTextArrays(p.TextArrayProperties),
			IntArrayProperties:     convertIntArrays(p.IntArrayProperties),
			NumberArrayProperties:  convertNumberArrays(p.NumberArrayProperties),
			BooleanArrayProperties: convertBoolArrays(p.BooleanArrayProperties),
			ObjectProperties:       convertObjectProperties(p.ObjectProperties),
			ObjectArrayProperties:  convertObjectArrayProperties(p.ObjectArrayProperties),
			EmptyListProps:         p.EmptyListProps,
		}
		for _, ref := range p.SingleTargetRefProps {
			out.Properties.SingleTargetRefProps = append(out.Properties.SingleTargetRefProps, &protocol.BatchObject_SingleTargetRefProps{
				PropName: ref.PropName,
				Uuids:    BeaconUUIDs(ref.Beacons),
			})
		}
		for _, ref := range p.MultiTargetRefProps {
			out.Properties.MultiTargetRefProps = append(out.Properties.MultiTargetRefProps, &protocol.BatchObject_MultiTargetRefProps{
				PropName:         ref.PropName,
				Uuids:            BeaconUUIDs(ref.Beacons),
				TargetCollection: ref.TargetCollection,
			})
		}
	}
	return out
}

// BeaconUUIDs returns the trailing UUID of every beacon.
func BeaconUUIDs(beacons []string) []string {
	out := make([]string, 0, len(beacons))
	for _, b := range beacons {
		out = append(out, b[strings.LastIndexByte(b, '/')+1:])
	}
	return out
}

func convertValue(v *ObjectPropertiesValue) *protocol.ObjectPropertiesValue {
	if v == nil {
		return nil
	}
	return &protocol.ObjectPropertiesValue{
		NonRefProperties:       v.NonRefProperties,
		TextArrayProperties:    convertTextArrays(v.TextArrayProperties),
		IntArrayProperties:     convertIntArrays(v.IntArrayProperties),
		NumberArrayProperties:  convertNumberArrays(v.NumberArrayProperties),
		BooleanArrayProperties: convertBoolArrays(v.BooleanArrayProperties),
		ObjectProperties:       convertObjectProperties(v.ObjectProperties),
		ObjectArrayProperties:  convertObjectArrayProperties(v.ObjectArrayProperties),
		EmptyListProps:         v.EmptyListProps,
	}
}

func convertTextArrays(in []*TextArrayProperties) []*protocol.TextArrayProperties {
	var out []*protocol.TextArrayProperties
	for _, p := range in {
		out = append(out, &protocol.TextArrayProperties{PropName: p.PropName, Values: p.Values})
	}
	return out
}

func convertIntArrays(in []*IntArrayProperties) []*protocol.IntArrayProperties {
	var out []*protocol.IntArrayProperties
	for _, p := range in {
		out = append(out, &protocol.IntArrayProperties{PropName: p.PropName, Values: p.Values})
	}
	return out
}

func convertNumberArrays(in []*NumberArrayProperties) []*protocol.NumberArrayProperties {
	var out []*protocol.NumberArrayProperties
	for _, p := range in {
		out = append(out, &protocol.NumberArrayProperties{PropName: p.PropName, ValuesBytes: p.ValuesBytes})
	}
	return out
}

func convertBoolArrays(in []*BooleanArrayProperties) []*protocol.BooleanArrayProperties {
	var out []*protocol.BooleanArrayProperties
	for _, p := range in {
		out = append(out, &protocol.BooleanArrayProperties{PropName: p.PropName, Values: p.Values})
	}
	return out
}

func convertObjectProperties(in []*ObjectProperties) []*protocol.ObjectProperties {
	var out []*protocol.ObjectProperties
	for _, p := range in {
		out = append(out, &protocol.ObjectProperties{PropName: p.PropName, Value: convertValue(p.Value)})
	}
	return out
}

func convertObjectArrayProperties(in []*ObjectArrayProperties) []*protocol.ObjectArrayProperties {
	var out []*protocol.ObjectArrayProperties
	for _, p := range in {
		values := make([]*protocol.ObjectPropertiesValue, 0, len(p.Values))
		for _, v := range p.Values {
			values = append(values, convertValue(v))
		}
		out = append(out, &protocol.ObjectArrayProperties{PropName: p.PropName, Values: values})
	}
	return out
}

// BatchObjectsReplyFromProto converts the server's batch reply.
func BatchObjectsReplyFromProto(r *protocol.BatchObjectsReply) *BatchObjectsReply {
	out := &BatchObjectsReply{Took: r.GetTook()}
	for _, e := range r.GetErrors() {
		out.Errors = append(out.Errors, &BatchObjectError{Index: e.GetIndex(), Error: e.GetError()})
	}
	return out
}
