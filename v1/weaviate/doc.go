// Package weaviate is a version-aware client for Weaviate's gRPC search
// and batch APIs.
//
// The client learns the server version once (from /v1/meta, or a pinned
// override) and compiles every request against it. A request the server
// cannot serve fails before any network call with an
// *errs.UnsupportedFeatureError naming the minimum version, e.g.
//
//	Multi-target vector search is not supported by Weaviate server version
//	1.23.9. Please upgrade to at least 1.26.0.
//
// Basic use:
//
//	client, err := weaviate.NewClient(weaviate.ClientParams{
//	    Config: weaviate.FromEndpoint("localhost").WithAPIKey(key),
//	})
//	articles := client.Collection("Article", weaviate.WithTenant("acme"))
//	reply, err := articles.NearVector(ctx, query.NearVectorOptions{
//	    Vector:  vectors.PerTarget(map[string][]float32{"title": t, "body": b}),
//	    Targets: vectors.SumOf("title", "body"),
//	    Common:  query.Common{Limit: 5},
//	})
//
// Writes go through InsertMany, which classifies properties with the batch
// package and sends one BatchObjects call:
//
//	reply, err := articles.InsertMany(ctx, []batch.Object{{
//	    Properties: map[string]any{"title": "Hello", "tags": []string{}},
//	    Vector:     embedding,
//	}})
//
// Configuration can come from code (DefaultConfig, FromEndpoint and the
// With* helpers) or from LoadConfig, which reads YAML and WEAVIATE_*
// environment variables. In fx applications, supply a *Config and include
// FXModule; the logger, metrics and tracer modules are picked up when
// present.
//
// Transport is the only I/O boundary. GRPCTransport converts the wire
// messages to the server's protobuf messages and calls the generated
// Weaviate gRPC client; tests substitute MockTransport.
package weaviate
