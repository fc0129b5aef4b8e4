// Package common provides core data structures and utilities shared across
// the travel reservation system. It defines the wire message protocol, the
// command surface, configuration structures and the error taxonomy used by
// the other rpc packages.
//
// The package focuses on:
//   - Message protocol definition for inter-component communication
//   - The closed Command enumeration and its routing classification
//   - Dynamically typed argument values carried without a per-command schema
//   - Configuration structures for resource managers, middleware and clients
//   - Custom logging implementation with consistent formatting
//
// Key Components:
//
//   - Message: Core data structure for all communication between components.
//     A message is either a request (command plus argument list), a response
//     (typed result) or an error response (descriptive text). The message ID
//     correlates responses to requests on a single connection.
//
//   - Command: Enumeration of every reservation operation, partitioned into
//     flight, car, room and cross-backend routing classes. The partition is
//     total and disjoint; the middleware session handler dispatches on it.
//
//   - Value: Tagged union carrying an integer, string, boolean or string
//     list. The type tag travels on the wire so the receiver can recover
//     the original type without an external schema.
//
//   - TransportError / RemoteError: Distinguish a broken connection from an
//     operation the peer rejected. The coordinator uses this distinction to
//     decide between failing one call and failing the whole session.
package common
