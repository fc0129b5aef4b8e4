package transport

import (
	"github.com/ValentinKolb/tRS/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the raw request payload as a parameter and returns a response payload
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the server side transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called once per received request; the transport writes
	// the returned payload back as the response
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and serves incoming requests until
	// the listener is closed
	Listen(config common.ServerConfig) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the client side transport.
//
// A client transport owns exactly one connection and permits at most one
// outstanding request on it: Send blocks until the response frame arrives,
// so request k+1 is never written before the response to request k was
// read. Instances are safe for concurrent use; concurrent Sends are
// serialized internally.
type IRPCClientTransport interface {
	// Connect establishes the connection with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request payload and returns the raw response payload.
	// Failures are reported as *common.TransportError
	Send(req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
