// Package serializer converts Message objects to and from byte arrays for
// transmission over a transport. Multiple wire formats are provided behind
// the IRPCSerializer interface so the format can be selected at startup:
//
//   - Binary: custom format with a flags byte and big-endian length-prefixed
//     fields, optimized for speed and size. The dynamic argument values keep
//     their type tag so the receiver can recover the original types.
//
//   - JSON: human readable, useful for debugging with standard tools.
//
//   - GOB: Go's native binary encoding.
//
//   - CBOR: deterministic CBOR (RFC 8949), interoperable with non-Go peers.
//
// All serializers must satisfy decode(encode(m)) == m for well-formed
// messages; the shared test suite verifies this for every implementation.
package serializer
