// Package vectors encodes query vectors and target-vector descriptors for
// the server version at hand.
//
// The same semantic request has several wire envelopes depending on what
// the server understands:
//
//   - ShapeLegacy: one flat vectorBytes buffer (single unnamed vector).
//   - ShapeNamedSingle: one flat buffer plus a single target name, for
//     servers with named vectors but no multi-target search (1.24, 1.25).
//   - ShapePerTargetMap: a map of target name to one buffer (1.26).
//   - ShapePerTargetList: a list of {name, vectorBytes}, allowing several
//     vectors per target (1.27 and newer).
//
// The envelope is picked by an ordered rule table keyed by a Capabilities
// bitset, so every server generation can be tested by flipping bits.
// Weights follow the same split: a scalar per target goes into the legacy
// weights map before 1.27 and into weightsForTargets from 1.27 on; a list
// of weights for one target is rejected with an UnsupportedFeatureError on
// older servers rather than silently truncated.
//
// Every buffer is little-endian float32, four bytes per element
// (wire.PackFloat32), regardless of envelope.
package vectors
