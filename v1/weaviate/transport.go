package weaviate

import (
	"context"
	"crypto/tls"
	"fmt"

	protocol "github.com/weaviate/weaviate/grpc/generated/protocol/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Aleph-Alpha/vectorwire/v1/tracer"
	"github.com/Aleph-Alpha/vectorwire/v1/wire"
)

// Transport sends compiled messages to the server. It is the only part of
// the client that performs I/O.
//
//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=weaviate
type Transport interface {
	Search(ctx context.Context, req *wire.SearchRequest) (*wire.SearchReply, error)
	BatchObjects(ctx context.Context, req *wire.BatchObjectsRequest) (*wire.BatchObjectsReply, error)
}

// GRPCTransport implements Transport with the server's generated gRPC
// client.
type GRPCTransport struct {
	client  protocol.WeaviateClient
	apiKey  string
	headers map[string]string
	tracer  *tracer.Tracer
}

var _ Transport = (*GRPCTransport)(nil)

// NewGRPCTransport wraps conn. The API key and headers are attached to
// every call; tr, when non-nil, propagates the trace context as metadata.
func NewGRPCTransport(conn grpc.ClientConnInterface, apiKey string, headers map[string]string, tr *tracer.Tracer) *GRPCTransport {
	return &GRPCTransport{client: protocol.NewWeaviateClient(conn), apiKey: apiKey, headers: headers, tracer: tr}
}

// Dial creates a lazily connecting gRPC client for cfg.
func Dial(cfg *Config) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if cfg.Secure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	conn, err := grpc.NewClient(cfg.GRPCAddress(), grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("[Weaviate] failed to create gRPC client for %s: %w", cfg.GRPCAddress(), err)
	}
	return conn, nil
}

// Search calls the Search RPC.
func (t *GRPCTransport) Search(ctx context.Context, req *wire.SearchRequest) (*wire.SearchReply, error) {
	reply, err := t.client.Search(t.outgoing(ctx), req.ToProto())
	if err != nil {
		return nil, fmt.Errorf("[Weaviate] Search RPC failed: %w", err)
	}
	return wire.SearchReplyFromProto(reply), nil
}

// BatchObjects calls the BatchObjects RPC.
func (t *GRPCTransport) BatchObjects(ctx context.Context, req *wire.BatchObjectsRequest) (*wire.BatchObjectsReply, error) {
	reply, err := t.client.BatchObjects(t.outgoing(ctx), req.ToProto())
	if err != nil {
		return nil, fmt.Errorf("[Weaviate] BatchObjects RPC failed: %w", err)
	}
	return wire.BatchObjectsReplyFromProto(reply), nil
}

func (t *GRPCTransport) outgoing(ctx context.Context) context.Context {
	kv := make([]string, 0, 2*(len(t.headers)+3))
	if t.apiKey != "" {
		kv = append(kv, "authorization", "Bearer "+t.apiKey)
	}
	for k, v := range t.headers {
		kv = append(kv, k, v)
	}
	if t.tracer != nil {
		for k, v := range t.tracer.GetCarrier(ctx) {
			kv = append(kv, k, v)
		}
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}
