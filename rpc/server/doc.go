// Package server implements the RPC server run by each backend of the
// reservation system. One server owns one in-memory resource manager and
// exposes its operations over a pluggable transport and serializer.
//
// The package focuses on:
//   - Server-side handling of all resource manager commands
//   - Adapter pattern to decouple the resource logic from RPC mechanics
//   - Uniform error reporting: command level problems become error
//     responses, business rejections become false results
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for server
//     adapters, with the Handle method that processes one request against a
//     resource.IResourceManager.
//
//   - NewResourceManagerAdapter: Factory function creating the adapter that
//     translates RPC requests into resource manager calls, including
//     argument arity and type validation.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Name: "flights",
//	  Transport: common.ServerTransportConf{Endpoint: "0.0.0.0:8081"},
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// A backend server is resource-type agnostic: the middleware decides which
// commands it routes where, so the same binary serves as flight, car or
// room backend.
//
// Thread Safety:
//
//	The server handles concurrent connections, each served by its own
//	goroutine; requests on one connection are processed strictly in order.
//	The Serve method should be called only once.
package server
