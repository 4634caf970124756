package wire

import (
	"bytes"
	"testing"

	protocol "github.com/weaviate/weaviate/grpc/generated/protocol/v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func roundTrip[T proto.Message](t *testing.T, in T, out T) {
	t.Helper()
	b, err := proto.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := proto.Unmarshal(b, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestEnumsMatchProtocol(t *testing.T) {
	if protocol.Filters_Operator(OperatorContainsAll) != protocol.Filters_OPERATOR_CONTAINS_ALL {
		t.Error("filter operator numbering drifted")
	}
	if protocol.Filters_Operator(OperatorAnd) != protocol.Filters_OPERATOR_AND {
		t.Error("And numbering drifted")
	}
	if protocol.ConsistencyLevel(ConsistencyLevelQuorum) != protocol.ConsistencyLevel_CONSISTENCY_LEVEL_QUORUM {
		t.Error("consistency numbering drifted")
	}
	if protocol.CombinationMethod(CombinationTypeManual) != protocol.CombinationMethod_COMBINATION_METHOD_TYPE_MANUAL {
		t.Error("combination numbering drifted")
	}
	if protocol.Hybrid_FusionType(FusionTypeRelativeScore) != protocol.Hybrid_FUSION_TYPE_RELATIVE_SCORE {
		t.Error("fusion numbering drifted")
	}
	if protocol.SearchOperatorOptions_Operator(SearchOperatorAnd) != protocol.SearchOperatorOptions_OPERATOR_AND {
		t.Error("search operator numbering drifted")
	}
}

func TestSearchRequestVectorsAreProtobufBytes(t *testing.T) {
	single := PackFloat32([]float32{1, 2})
	perTarget := PackFloat32([]float32{3, 4})
	req := &SearchRequest{
		Collection: "Doc",
		NearVector: &NearVector{
			VectorBytes:      single,
			VectorForTargets: []*VectorForTarget{{Name: "a", VectorBytes: perTarget}},
			Targets:          &Targets{TargetVectors: []string{"a"}, Combination: CombinationTypeSum},
		},
		Uses125API: true,
		Uses127API: true,
	}

	got := new(protocol.SearchRequest)
	roundTrip(t, req.ToProto(), got)

	if got.GetCollection() != "Doc" {
		t.Errorf("collection = %q", got.GetCollection())
	}
	nv := got.GetNearVector()
	if !bytes.Equal(nv.GetVectorBytes(), single) {
		t.Errorf("vector bytes = %v, want %v", nv.GetVectorBytes(), single)
	}
	if len(nv.GetVectorForTargets()) != 1 || !bytes.Equal(nv.GetVectorForTargets()[0].GetVectorBytes(), perTarget) {
		t.Errorf("vector for targets = %v", nv.GetVectorForTargets())
	}
	if nv.GetTargets().GetCombination() != protocol.CombinationMethod_COMBINATION_METHOD_TYPE_SUM {
		t.Errorf("combination = %v", nv.GetTargets().GetCombination())
	}
	if !got.GetUses_125Api() || !got.GetUses_127Api() {
		t.Error("reply shape flags were lost")
	}
}

func TestSearchRequestModalities(t *testing.T) {
	dist := float32(0.3)
	op := int32(2)
	req := &SearchRequest{
		Collection: "Doc",
		HybridSearch: &Hybrid{
			Query:          "q",
			Alpha:          0.5,
			FusionType:     FusionTypeRanked,
			VectorDistance: &dist,
			BM25Operator:   &SearchOperatorOptions{Operator: SearchOperatorOr, MinimumOrTokensMatch: &op},
		},
		NearIMU: &NearMediaSearch{Media: "aW11"},
		SortBy:  []*SortBy{{Ascending: true, Path: []string{"title"}}},
		GroupBy: &GroupBy{Path: []string{"author"}, NumberOfGroups: 2, ObjectsPerGroup: 3},
	}

	got := new(protocol.SearchRequest)
	roundTrip(t, req.ToProto(), got)

	h := got.GetHybridSearch()
	if h.GetVectorDistance() != dist {
		t.Errorf("vector distance = %v", h.GetVectorDistance())
	}
	if h.GetBm25SearchOperator().GetMinimumOrTokensMatch() != 2 {
		t.Errorf("minimum match = %v", h.GetBm25SearchOperator().GetMinimumOrTokensMatch())
	}
	if got.GetNearImu().GetImu() != "aW11" {
		t.Errorf("imu = %q", got.GetNearImu().GetImu())
	}
	if got.GetGroupBy().GetObjectsPerGroup() != 3 || len(got.GetSortBy()) != 1 {
		t.Errorf("group by / sort lost: %v %v", got.GetGroupBy(), got.GetSortBy())
	}
}

func TestFiltersToProto(t *testing.T) {
	name := "Acme"
	n := int64(3)
	f := &Filters{
		Operator: OperatorAnd,
		Filters: []*Filters{
			{
				Operator: OperatorEqual,
				Target: &FilterTarget{MultiTarget: &FilterReferenceMultiTarget{
					On:               "author",
					TargetCollection: "Person",
					Target:           &FilterTarget{SingleTarget: &FilterReferenceSingleTarget{On: "company", Target: &FilterTarget{Property: "name"}}},
				}},
				ValueText: &name,
			},
			{
				Operator: OperatorGreaterThan,
				Target:   &FilterTarget{Count: &FilterReferenceCount{On: "tags"}},
				ValueInt: &n,
			},
			{
				Operator:       OperatorContainsAny,
				Target:         &FilterTarget{Property: "labels"},
				ValueTextArray: &TextArray{Values: []string{"x", "y"}},
			},
		},
	}

	got := new(protocol.Filters)
	roundTrip(t, f.ToProto(), got)

	if got.GetOperator() != protocol.Filters_OPERATOR_AND || len(got.GetFilters()) != 3 {
		t.Fatalf("root = %v", got)
	}
	ref := got.GetFilters()[0]
	mt := ref.GetTarget().GetMultiTarget()
	if mt.GetOn() != "author" || mt.GetTargetCollection() != "Person" {
		t.Errorf("multi target = %v", mt)
	}
	if mt.GetTarget().GetSingleTarget().GetTarget().GetProperty() != "name" {
		t.Errorf("nested property lost: %v", mt.GetTarget())
	}
	if ref.GetValueText() != "Acme" {
		t.Errorf("value text = %q", ref.GetValueText())
	}
	if got.GetFilters()[1].GetTarget().GetCount().GetOn() != "tags" || got.GetFilters()[1].GetValueInt() != 3 {
		t.Errorf("count leaf = %v", got.GetFilters()[1])
	}
	if vals := got.GetFilters()[2].GetValueTextArray().GetValues(); len(vals) != 2 {
		t.Errorf("text array = %v", vals)
	}
}

func TestBatchObjectsToProto(t *testing.T) {
	props, err := structpb.NewStruct(map[string]any{"title": "hello"})
	if err != nil {
		t.Fatal(err)
	}
	numbers := PackFloat64([]float64{1.5, 2.5})
	req := &BatchObjectsRequest{Objects: []*BatchObject{{
		UUID:       "6a2b0c4e-8d8f-4d59-9d3a-3f0c8e9b1a22",
		Collection: "Article",
		Tenant:     "acme",
		Properties: &BatchObjectProperties{
			NonRefProperties:      props,
			NumberArrayProperties: []*NumberArrayProperties{{PropName: "scores", ValuesBytes: numbers}},
			SingleTargetRefProps: []*SingleTargetRefProps{{
				PropName: "author",
				Beacons:  []string{"weaviate://localhost/0f5cbb8a-2f0e-4b86-9c57-1d7b3a9d5b11"},
			}},
			MultiTargetRefProps: []*MultiTargetRefProps{{
				PropName:         "cites",
				TargetCollection: "Paper",
				Beacons:          []string{"weaviate://localhost/Paper/7c7e2a4f-6f7b-4f0a-8d0e-3a5b6c7d8e9f"},
			}},
			ObjectProperties: []*ObjectProperties{{
				PropName: "meta",
				Value:    &ObjectPropertiesValue{EmptyListProps: []string{"tags"}},
			}},
			EmptyListProps: []string{"labels"},
		},
		Vectors: []*Vectors{{Name: "title", VectorBytes: PackFloat32([]float32{1})}},
	}}}

	got := new(protocol.BatchObjectsRequest)
	roundTrip(t, req.ToProto(), got)

	if len(got.GetObjects()) != 1 {
		t.Fatalf("objects = %d", len(got.GetObjects()))
	}
	obj := got.GetObjects()[0]
	if obj.GetUuid() != "6a2b0c4e-8d8f-4d59-9d3a-3f0c8e9b1a22" || obj.GetTenant() != "acme" {
		t.Errorf("object header = %v", obj)
	}
	p := obj.GetProperties()
	if p.GetNonRefProperties().GetFields()["title"].GetStringValue() != "hello" {
		t.Errorf("non-ref properties = %v", p.GetNonRefProperties())
	}
	if !bytes.Equal(p.GetNumberArrayProperties()[0].GetValuesBytes(), numbers) {
		t.Error("number array bytes lost")
	}
	if uuids := p.GetSingleTargetRefProps()[0].GetUuids(); len(uuids) != 1 || uuids[0] != "0f5cbb8a-2f0e-4b86-9c57-1d7b3a9d5b11" {
		t.Errorf("single target uuids = %v", uuids)
	}
	mt := p.GetMultiTargetRefProps()[0]
	if mt.GetTargetCollection() != "Paper" || mt.GetUuids()[0] != "7c7e2a4f-6f7b-4f0a-8d0e-3a5b6c7d8e9f" {
		t.Errorf("multi target = %v", mt)
	}
	if p.GetObjectProperties()[0].GetValue().GetEmptyListProps()[0] != "tags" {
		t.Error("nested empty list lost")
	}
	if len(p.GetEmptyListProps()) != 1 || p.GetEmptyListProps()[0] != "labels" {
		t.Errorf("empty list props = %v", p.GetEmptyListProps())
	}
	if obj.GetVectors()[0].GetName() != "title" {
		t.Errorf("named vectors = %v", obj.GetVectors())
	}
}

func TestRepliesFromProto(t *testing.T) {
	sr := SearchReplyFromProto(&protocol.SearchReply{
		Took: 1.5,
		Results: []*protocol.SearchResult{
			{Metadata: &protocol.MetadataResult{Id: "a", Score: 0.9}},
		},
	})
	if sr.Took != 1.5 || len(sr.Results) != 1 || sr.Results[0].ID != "a" || sr.Results[0].Score != 0.9 {
		t.Errorf("search reply = %+v", sr)
	}
	if sr.Proto == nil {
		t.Error("search reply dropped the protobuf message")
	}

	br := BatchObjectsReplyFromProto(&protocol.BatchObjectsReply{
		Errors: []*protocol.BatchObjectsReply_BatchError{{Index: 4, Error: "boom"}},
	})
	if len(br.Errors) != 1 || br.Errors[0].Index != 4 || br.Errors[0].Error != "boom" {
		t.Errorf("batch reply = %+v", br)
	}
}
