// Package wire is the message model the compilation layer produces: search
// requests with their filter trees and vector envelopes, and batch object
// payloads.
//
// The types mirror the server's gRPC protocol field for field and convert
// into the generated protobuf messages with ToProto. Numeric vectors are
// always carried as little-endian float32 byte buffers (PackFloat32); batch
// number arrays as little-endian float64 buffers (PackFloat64). Scalar
// batch properties ride in a structpb.Struct.
package wire
