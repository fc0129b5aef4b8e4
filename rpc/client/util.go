package client

import (
	"fmt"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport"
)

var (
	Logger = logger.GetLogger("client")
)

// rpcClientAdapter stores all data needed for an RPC client implementation.
// Used by the reservation client with the composition pattern.
//
// The adapter assigns each request an id from a per-connection counter. The
// transport permits only one request in flight, so ids are trivially unique
// among outstanding requests; they exist to detect a desynchronized peer.
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	nextID     atomic.Uint64
}

// newRequestID returns the id for the next request
func (a *rpcClientAdapter) newRequestID() uint64 {
	return a.nextID.Add(1)
}

// invokeRPCRequest sends one request and returns the decoded response.
//
// The error return distinguishes the failure classes of the protocol:
// transport failures arrive as *common.TransportError (from the transport
// layer), error responses from the peer become *common.RemoteError, and
// everything else (undecodable response, id mismatch, wrong message type)
// is a plain error meaning the connection can no longer be trusted.
func invokeRPCRequest(req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := transport.Send(reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	if err = serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %v", err)
	}

	// The peer must answer the request it was sent
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, common.NewRemoteError(resp.Err)
	}

	if resp.MsgType != common.MsgTResponse {
		return nil, fmt.Errorf("unexpected message type: %s", resp.MsgType)
	}

	if resp.Result == nil {
		return nil, fmt.Errorf("response carries no result")
	}

	// Return the response
	return resp, nil
}
