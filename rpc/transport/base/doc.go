// Package base provides a foundation for transport layers in the reservation
// system, implementing core functionality for RPC communication independent
// of the specific network protocol (TCP, Unix sockets, etc.). It serves as a
// base layer that can be extended with protocol-specific connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - Frame-based message protocol with a 4-byte big-endian length prefix
//   - Strict request/response discipline without pipelining
//   - Buffer reuse to reduce GC pressure on busy connections
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific
//     operations that allow extending the base transport with different
//     network protocols.
//
//   - clientTransport: Core client implementation that owns a single
//     connection and serializes requests on it. Because at most one request
//     is outstanding, request/response pairing needs no frame-level
//     correlation ids.
//
//   - serverTransport: Core server implementation that accepts connections
//     and serves each one in a dedicated goroutine, processing its requests
//     strictly in order.
//
// Thread Safety:
//
//	All public methods are thread-safe. The client transport serializes
//	concurrent Sends with a mutex, while the server creates a dedicated
//	goroutine for each connection.
package base
