package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport/base"
	"github.com/ValentinKolb/tRS/rpc/transport/tcp"
)

const sessionBufferSize = 512 * 1024 // 512 KB

// NewMiddlewareServer creates a new middleware server
// It takes a config and a serializer as parameters; the serializer is used
// both towards clients and towards the backends
//
// Usage:
//
//	s := middleware.NewMiddlewareServer(config, serializer.NewJSONSerializer())
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewMiddlewareServer(
	config common.MiddlewareConfig,
	ser serializer.IRPCSerializer,
) middlewareServer {
	Logger.Infof("Created Middleware Server")
	Logger.Infof(config.String())

	return middlewareServer{
		config:     config,
		serializer: ser,
		connector:  tcp.NewTCPServerConnector(),
		ids:        resource.NewCustomerIDSource(),
	}
}

type middlewareServer struct {
	config     common.MiddlewareConfig
	serializer serializer.IRPCSerializer
	connector  base.IServerConnector
	ids        *resource.CustomerIDSource
}

// serverConfig derives the transport-facing server configuration from the
// middleware configuration
func (s *middlewareServer) serverConfig() common.ServerConfig {
	return common.ServerConfig{
		Name:          "middleware",
		Transport:     s.config.Transport,
		TimeoutSecond: s.config.TimeoutSecond,
		LogLevel:      s.config.LogLevel,
	}
}

// Serve starts the middleware server. It accepts client connections and
// serves each in its own session with dedicated backend connections.
func (s *middlewareServer) Serve() error {
	common.InitLoggers(s.config.LogLevel)

	// Expose metrics if an endpoint is configured
	if s.config.MetricsEndpoint != "" {
		go func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
				metrics.WritePrometheus(w, true)
			})
			Logger.Infof("serving metrics on %s/metrics", s.config.MetricsEndpoint)
			if err := http.ListenAndServe(s.config.MetricsEndpoint, mux); err != nil {
				Logger.Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	serverConfig := s.serverConfig()
	listener, err := s.connector.Listen(serverConfig)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}

	Logger.Infof("Middleware listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				Logger.Infof("Listener closed, stopping accept loop")
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		if err := s.connector.UpgradeConnection(conn, serverConfig); err != nil {
			Logger.Errorf("Failed to upgrade connection: %v", err)
			conn.Close()
			continue
		}

		go s.startSession(conn)
	}
}

// startSession connects the backends for one client and runs the session
// loop. Backend connections are per session so requests of concurrent
// sessions never interleave on a backend socket.
func (s *middlewareServer) startSession(conn net.Conn) {
	coord, err := s.connectBackends()
	if err != nil {
		Logger.Errorf("Rejecting session, backend unavailable: %v", err)
		metrics.GetOrCreateCounter(`middleware_session_rejects_total`).Inc()
		conn.Close()
		return
	}

	timeout := time.Duration(s.config.TimeoutSecond) * time.Second
	sess := newSession(conn, coord, s.serializer, timeout, sessionBufferSize)
	sess.serve()
}

// connectBackends dials all three backend resource servers
func (s *middlewareServer) connectBackends() (*coordinator, error) {
	type target struct {
		name     string
		endpoint string
	}
	targets := []target{
		{"flight", s.config.Backends.Flight},
		{"car", s.config.Backends.Car},
		{"room", s.config.Backends.Room},
	}

	conns := make([]IBackendCaller, 0, len(targets))
	for _, t := range targets {
		backend, err := NewBackendConn(t.name, s.config.BackendClientConfig(t.endpoint),
			tcp.NewTCPClientTransport(), s.serializer)
		if err != nil {
			// Close what was already connected
			for _, c := range conns {
				c.Close()
			}
			return nil, fmt.Errorf("backend %s (%s): %v", t.name, t.endpoint, err)
		}
		conns = append(conns, backend)
	}

	return newCoordinator(conns[0], conns[1], conns[2], s.ids), nil
}
