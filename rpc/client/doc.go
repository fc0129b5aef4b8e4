// Package client implements the RPC client for the reservation system. It
// provides an implementation of the resource manager operations that
// communicates with the middleware (or a single backend) via RPC.
//
// The package focuses on:
//   - Transparent RPC access to the reservation operations
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - IReservationClient: The client side interface, covering all resource
//     manager operations plus the middleware-only Bundle operation.
//
//   - NewReservationClient: Factory function that creates a connected
//     client. All operations are forwarded over the configured transport.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConf{Endpoint: "localhost:5000"},
//	}
//
//	c, _ := client.NewReservationClient(
//	  config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	defer c.Close()
//
//	c.AddFlight(100, 50, 299)
//	id, _ := c.NewCustomer()
//	c.Bundle(id, []string{"100", "100"}, "montreal", true, false)
//
// Error Handling:
//
//	Transport failures surface as *common.TransportError, error responses
//	from the peer as *common.RemoteError. Business rejections are not
//	errors: they arrive as regular false results.
//
// Thread Safety:
//
//	The client is safe for concurrent use; the underlying transport
//	serializes requests, so concurrent calls simply queue.
package client
