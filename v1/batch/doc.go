// Package batch encodes objects for bulk ingestion.
//
// Each Object's properties are partitioned into the typed buckets of
// wire.BatchObjectProperties: scalars and geo/phone values go to
// NonRefProperties, homogeneous lists to the typed array buckets (number
// lists packed as little-endian float64), nested maps to object buckets,
// and references to beacon lists. An empty list carries no element type,
// so its name is listed in EmptyListProps and nowhere else.
//
//	enc := batch.NewEncoder(snapshot, batch.WithConcurrency(8))
//	req, err := enc.Request(ctx, []batch.Object{{
//	    Collection: "Article",
//	    Properties: map[string]any{"title": "Hello", "tags": []string{}},
//	    References: map[string]batch.Reference{"author": batch.To(authorID)},
//	    Vector:     embedding,
//	}}, wire.ConsistencyLevelQuorum)
//
// EncodeAll preserves input order regardless of concurrency. Objects
// yields messages lazily for callers that stream a large batch.
package batch
