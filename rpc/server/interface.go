package server

import (
	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Message and a resource manager as parameters.
	// It returns a Message as a response; the response always carries the
	// id of the request so the caller can correlate them.
	// If an error occurs, it is set in the response
	Handle(req *common.Message, rm resource.IResourceManager) (resp *common.Message)
}
