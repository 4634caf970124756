// Package query compiles search options into wire.SearchRequest messages.
//
// A Compiler is bound to one collection and one version snapshot:
//
//	c := query.NewCompiler("Article", snapshot, query.WithTenant("acme"))
//	req, err := c.NearVector(query.NearVectorOptions{
//	    Vector:  vectors.PerTarget(map[string][]float32{"title": t, "body": b}),
//	    Targets: vectors.SumOf("title", "body"),
//	    Common:  query.Common{Limit: 10, ReturnMetadata: query.AllMetadata()},
//	})
//
// Every modality (Fetch, BM25, Hybrid, NearVector, NearText, NearObject,
// NearMedia) shares the Common options: paging, filters, metadata,
// projection, sorting, reranking, group-by and generative overlays.
//
// Compilation is synchronous and free of side effects. A feature the
// server version cannot serve fails with *errs.UnsupportedFeatureError
// naming the minimum version; malformed options fail with
// *errs.InputError. A method returns either a complete request or an
// error, never both.
package query
