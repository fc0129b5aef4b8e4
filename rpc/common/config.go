package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Shared transport settings
// --------------------------------------------------------------------------

// SocketConf holds socket buffer sizes shared by all stream transports.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific tuning options (ignored by unix sockets).
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ServerTransportConf configures the listening side of a transport.
type ServerTransportConf struct {
	// Endpoint is the address to listen on (host:port for tcp, a path for unix)
	Endpoint string

	SocketConf
	TCPConf
}

// ClientTransportConf configures the dialing side of a transport.
type ClientTransportConf struct {
	// Endpoint is the address of the server (host:port for tcp, a path for unix)
	Endpoint string

	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// Resource manager server configuration
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for one backend resource
// manager process (flight, car or room).
type ServerConfig struct {
	// Name identifies the resource manager, e.g. "flight"
	Name string

	// Transport settings for the listening socket
	Transport ServerTransportConf

	// TimeoutSecond bounds single read/write operations on a connection.
	// Zero disables deadlines (connections may idle between requests).
	TimeoutSecond int64

	// MetricsEndpoint optionally exposes Prometheus metrics over HTTP
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Resource Manager")
	addField("Name", c.Name)
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	if c.MetricsEndpoint != "" {
		addSection("Metrics")
		addField("Endpoint", c.MetricsEndpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Middleware configuration
// --------------------------------------------------------------------------

// BackendEndpoints holds the address of each backend resource manager.
type BackendEndpoints struct {
	Flight string
	Car    string
	Room   string
}

// MiddlewareConfig holds all configuration parameters for the middleware
// tier: the client-facing listening socket plus one endpoint per backend.
type MiddlewareConfig struct {
	// Transport settings for the client-facing listening socket
	Transport ServerTransportConf

	// Backends are the resource manager endpoints the coordinator fans out to
	Backends BackendEndpoints

	// TimeoutSecond bounds single read/write operations on backend
	// connections. Zero disables deadlines.
	TimeoutSecond int64

	// MetricsEndpoint optionally exposes Prometheus metrics over HTTP
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// BackendClientConfig derives the client configuration used for one backend
// connection of a session.
func (c *MiddlewareConfig) BackendClientConfig(endpoint string) ClientConfig {
	return ClientConfig{
		TimeoutSecond: int(c.TimeoutSecond),
		Transport: ClientTransportConf{
			Endpoint:   endpoint,
			SocketConf: c.Transport.SocketConf,
			TCPConf:    c.Transport.TCPConf,
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *MiddlewareConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Middleware")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Backends")
	addField("Flight", c.Backends.Flight)
	addField("Car", c.Backends.Car)
	addField("Room", c.Backends.Room)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	if c.MetricsEndpoint != "" {
		addSection("Metrics")
		addField("Endpoint", c.MetricsEndpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration for one client connection.
type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConf
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	return sb.String()
}
