package base

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/transport"
)

// Logger for the transport layer
var Logger = logger.GetLogger("transport/rpc")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific client operations
type IClientConnector interface {
	// Connect establishes a connection to the given endpoint
	Connect(config common.ClientConfig) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
//
// The transport owns exactly one connection. Send is serialized with a
// mutex so at most one request is in flight at any time: the response to
// request k is always read before request k+1 is written. This keeps the
// request/response pairing trivial without frame-level correlation ids.
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
	conn      net.Conn
	buf       []byte
	mu        sync.Mutex
	connected bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport
func NewBaseClientTransport(connector IClientConnector, bufferSize int) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
		buf:       make([]byte, bufferSize),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return common.NewTransportError("connect", fmt.Errorf("already connected"))
	}

	conn, err := t.connector.Connect(config)
	if err != nil {
		return common.NewTransportError("connect", err)
	}

	t.config = config
	t.conn = conn
	t.connected = true

	Logger.Infof("Connected to %s using %s transport", config.Transport.Endpoint, t.connector.GetName())
	return nil
}

func (t *clientTransport) Send(req []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return nil, common.NewTransportError("send", fmt.Errorf("not connected"))
	}

	timeout := time.Duration(t.config.TimeoutSecond) * time.Second
	if timeout > 0 {
		if err := t.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, common.NewTransportError("send", err)
		}
	}

	// Write the request frame
	if err := WriteFrame(t.conn, req); err != nil {
		t.closeLocked()
		return nil, common.NewTransportError("send", err)
	}

	// Read the response frame. The connection carries no other traffic, so
	// the next frame is the response to the request just written.
	resp, err := ReadFrame(t.conn, t.buf)
	if err != nil {
		t.closeLocked()
		return nil, common.NewTransportError("receive", err)
	}

	// The buffer is reused for the next request, hand out a copy
	out := make([]byte, len(resp))
	copy(out, resp)
	return out, nil
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// closeLocked closes the connection, the caller must hold the mutex
func (t *clientTransport) closeLocked() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.conn.Close()
}
