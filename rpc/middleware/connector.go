package middleware

import (
	"fmt"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport"
)

var Logger = logger.GetLogger("middleware")

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IBackendCaller is the coordinator's view of one backend resource server.
// The interface exists so coordinator logic can be tested against fakes.
//
// Both methods distinguish failure classes through the error value:
// *common.TransportError means the connection to the backend is broken,
// *common.RemoteError carries an error response from the backend. Any other
// error means the backend violated the protocol (undecodable response, id
// mismatch) and the connection can no longer be trusted.
type IBackendCaller interface {
	// Name returns the backend name for logging ("flight", "car", "room")
	Name() string
	// Forward sends the request to the backend and returns its response.
	// The request id is rewritten to the backend connection's own id
	// sequence and the response id is restored before returning, so the
	// caller sees its original id throughout.
	Forward(req *common.Message) (*common.Message, error)
	// Call builds a request for cmd with the given arguments, sends it and
	// returns the successful response. Error responses from the backend
	// are converted to *common.RemoteError.
	Call(cmd common.Command, args ...common.Value) (*common.Message, error)
	// Close closes the backend connection
	Close() error
}

// --------------------------------------------------------------------------
// Implementation
// --------------------------------------------------------------------------

// backendConn implements IBackendCaller on one client transport. Each
// middleware session owns its own set of backend connections, so requests of
// different sessions never interleave on a backend socket.
type backendConn struct {
	name       string
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	nextID     atomic.Uint64
}

// NewBackendConn connects to one backend resource server
func NewBackendConn(
	name string,
	config common.ClientConfig,
	trans transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (IBackendCaller, error) {
	if err := trans.Connect(config); err != nil {
		return nil, err
	}
	return &backendConn{
		name:       name,
		transport:  trans,
		serializer: ser,
	}, nil
}

func (b *backendConn) Name() string {
	return b.name
}

func (b *backendConn) Forward(req *common.Message) (*common.Message, error) {
	// Rewrite the id so it is unique on this backend connection
	backendReq := *req
	backendReq.ID = b.nextID.Add(1)

	reqBytes, err := b.serializer.Serialize(backendReq)
	if err != nil {
		return nil, err
	}

	respBytes, err := b.transport.Send(reqBytes)
	if err != nil {
		// The transport already wraps this in *common.TransportError
		return nil, err
	}

	resp := &common.Message{}
	if err := b.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("backend %s: failed to deserialize response: %v", b.name, err)
	}

	if resp.ID != backendReq.ID {
		return nil, fmt.Errorf("backend %s: response id %d does not match request id %d",
			b.name, resp.ID, backendReq.ID)
	}

	// Restore the caller's id
	resp.ID = req.ID
	return resp, nil
}

func (b *backendConn) Call(cmd common.Command, args ...common.Value) (*common.Message, error) {
	req := common.NewRequest(0, cmd, args...) // Forward assigns the wire id
	resp, err := b.Forward(req)
	if err != nil {
		return nil, err
	}
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, common.NewRemoteError(fmt.Sprintf("backend %s: %s", b.name, resp.Err))
	}
	return resp, nil
}

func (b *backendConn) Close() error {
	return b.transport.Close()
}
