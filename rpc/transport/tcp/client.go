package tcp

import (
	"net"
	"time"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/transport"
	"github.com/ValentinKolb/tRS/rpc/transport/base"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(config common.ClientConfig) (net.Conn, error) {
	conn, err := net.Dial("tcp", config.Transport.Endpoint)
	if err != nil {
		return nil, err
	}

	// Apply the same TCP tuning the server side uses
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(config.Transport.TCPNoDelay); err != nil {
			conn.Close()
			return nil, err
		}
		if config.Transport.WriteBufferSize > 0 {
			if err := tcpConn.SetWriteBuffer(config.Transport.WriteBufferSize); err != nil {
				conn.Close()
				return nil, err
			}
		}
		if config.Transport.ReadBufferSize > 0 {
			if err := tcpConn.SetReadBuffer(config.Transport.ReadBufferSize); err != nil {
				conn.Close()
				return nil, err
			}
		}
		if config.Transport.TCPKeepAliveSec > 0 {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				conn.Close()
				return nil, err
			}
			period := time.Duration(config.Transport.TCPKeepAliveSec) * time.Second
			if err := tcpConn.SetKeepAlivePeriod(period); err != nil {
				conn.Close()
				return nil, err
			}
		}
	}

	return conn, nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{}, defaultBufferSize)
}
