// Package tcp implements TCP socket-based transport for the reservation
// system's RPC layer. It provides concrete implementations of the base
// package's connector interfaces optimized for TCP connections.
//
// This package builds on the base package's transport functionality,
// inheriting its framing, buffer reuse and request/response discipline. See
// the base package documentation for detailed information on the underlying
// transport mechanisms.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
//
// The default buffer size is set to 512 KB, which provides good performance
// for typical workloads.
package tcp
