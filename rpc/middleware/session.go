package middleware

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport/base"
)

// session serves one client connection. Requests are handled strictly in
// order: the next frame is not read before the response to the previous one
// was written, mirroring the no-pipelining contract of the wire protocol.
type session struct {
	conn        net.Conn
	coordinator *coordinator
	serializer  serializer.IRPCSerializer
	timeout     time.Duration
	buf         []byte
}

func newSession(conn net.Conn, coord *coordinator, ser serializer.IRPCSerializer, timeout time.Duration, bufferSize int) *session {
	return &session{
		conn:        conn,
		coordinator: coord,
		serializer:  ser,
		timeout:     timeout,
		buf:         make([]byte, bufferSize),
	}
}

// serve runs the session loop until the client disconnects or the session
// becomes unusable. The backend connections are closed on exit.
func (s *session) serve() {
	defer s.close()

	metrics.GetOrCreateCounter(`middleware_sessions_total`).Inc()

	for {
		err := s.handleOne()

		// Case EOF: connection closed by client
		if err == io.EOF {
			Logger.Infof("Session closed by client")
			return
		}

		// Case error: log and close the session
		if err != nil {
			Logger.Errorf("Session terminated: %v", err)
			metrics.GetOrCreateCounter(`middleware_session_errors_total`).Inc()
			return
		}
	}
}

// handleOne processes one request/response exchange. The returned error is
// nil while the session stays usable.
func (s *session) handleOne() error {
	req, err := base.ReadFrame(s.conn, s.buf)
	if err != nil {
		return err
	}

	var msg common.Message
	if err := s.serializer.Deserialize(req, &msg); err != nil {
		// An undecodable frame is a protocol error: the id is unknown, so
		// no response can be correlated. Report with the zero id and drop
		// the connection.
		s.writeResponse(&common.Message{
			MsgType: common.MsgTError,
			Err:     fmt.Sprintf("failed to deserialize request: %s", err),
		})
		return fmt.Errorf("protocol error: %v", err)
	}

	resp, fatal := s.coordinator.Handle(&msg)
	if fatal != nil {
		// A backend failed mid-request. Tell the client before closing so
		// the failure is not mistaken for a business rejection.
		s.writeResponse(common.NewErrorResponse(msg.ID, fmt.Sprintf("backend failure: %v", fatal)))
		return fatal
	}

	if err := s.writeResponse(resp); err != nil {
		return err
	}
	return nil
}

// writeResponse serializes and writes one response frame
func (s *session) writeResponse(resp *common.Message) error {
	data, err := s.serializer.Serialize(*resp)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %v", err)
	}

	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return fmt.Errorf("failed to set write deadline: %v", err)
		}
	}

	return base.WriteFrame(s.conn, data)
}

// close shuts down the client connection and all backend connections
func (s *session) close() {
	s.conn.Close()
	for _, backend := range []IBackendCaller{s.coordinator.flight, s.coordinator.car, s.coordinator.room} {
		if err := backend.Close(); err != nil {
			Logger.Warningf("Failed to close %s backend connection: %v", backend.Name(), err)
		}
	}
}
