// Package unix implements a transport layer for the reservation system's
// RPC layer using Unix domain sockets. It provides optimized communication
// for processes running on the same machine.
//
// This package extends the base transport layer with Unix socket-specific
// connectors while inheriting framing, buffer reuse and error handling from
// the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners and accepts connections
//
// The default buffer size is 64 KB, which suits local communication
// patterns.
package unix
