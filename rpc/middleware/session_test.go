package middleware

import (
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport/base"
)

// startTestSession wires a session over an in-memory pipe and returns the
// client end, the backends and a channel closed when the session loop exits
func startTestSession(t *testing.T) (net.Conn, *fakeBackend, *fakeBackend, *fakeBackend, chan struct{}) {
	t.Helper()

	coord, flight, car, room := testCoordinator()
	clientConn, serverConn := net.Pipe()

	sess := newSession(serverConn, coord, serializer.NewJSONSerializer(), 0, 64*1024)
	done := make(chan struct{})
	go func() {
		sess.serve()
		close(done)
	}()

	return clientConn, flight, car, room, done
}

// exchange sends one message and reads the response over the client end
func exchange(t *testing.T, conn net.Conn, msg *common.Message) *common.Message {
	t.Helper()
	ser := serializer.NewJSONSerializer()

	data, err := ser.Serialize(*msg)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if err := base.WriteFrame(conn, data); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	respData, err := base.ReadFrame(conn, make([]byte, 64*1024))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	resp := &common.Message{}
	if err := ser.Deserialize(respData, resp); err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	return resp
}

func TestSessionRequestResponse(t *testing.T) {
	conn, flight, _, _, done := startTestSession(t)
	defer conn.Close()

	resp := exchange(t, conn, common.NewRequest(1, common.CmdAddFlight,
		common.IntValue(100), common.IntValue(10), common.IntValue(50)))
	if resp.ID != 1 {
		t.Errorf("response id = %d, want 1", resp.ID)
	}
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("AddFlight response = %+v", resp)
	}
	if n, _ := flight.rm.QueryFlight(100); n != 10 {
		t.Errorf("flight backend seats = %d, want 10", n)
	}

	// The session survives multiple sequential requests
	resp = exchange(t, conn, common.NewRequest(2, common.CmdQueryFlight, common.IntValue(100)))
	if n, err := resp.Result.AsInt(); err != nil || n != 10 {
		t.Fatalf("QueryFlight response = %+v", resp)
	}

	// Closing the client ends the session
	conn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not terminate after client close")
	}
}

func TestSessionRelaysBusinessRejection(t *testing.T) {
	conn, _, _, _, _ := startTestSession(t)
	defer conn.Close()

	// Reserving for a missing customer is a false result, not an error,
	// and must not end the session
	resp := exchange(t, conn, common.NewRequest(1, common.CmdReserveFlight,
		common.IntValue(999), common.IntValue(1)))
	if resp.MsgType != common.MsgTResponse {
		t.Fatalf("expected response, got %+v", resp)
	}
	if ok, _ := resp.Result.AsBool(); ok {
		t.Error("reservation for missing customer succeeded")
	}

	resp = exchange(t, conn, common.NewRequest(2, common.CmdNewCustomer))
	if _, err := resp.Result.AsInt(); err != nil {
		t.Errorf("session unusable after rejection: %+v", resp)
	}
}

func TestSessionClosesOnUndecodableFrame(t *testing.T) {
	conn, _, _, _, done := startTestSession(t)
	defer conn.Close()

	// A frame that is not a valid message is a protocol error: the
	// session answers with an error and closes
	if err := base.WriteFrame(conn, []byte("not a message")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	respData, err := base.ReadFrame(conn, make([]byte, 64*1024))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	resp := &common.Message{}
	if err := serializer.NewJSONSerializer().Deserialize(respData, resp); err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	if resp.MsgType != common.MsgTError {
		t.Fatalf("expected error response, got %+v", resp)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not terminate after protocol error")
	}
}

func TestSessionClosesBackendsOnExit(t *testing.T) {
	conn, flight, car, room, done := startTestSession(t)

	conn.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not terminate")
	}

	for _, f := range []*fakeBackend{flight, car, room} {
		if !f.closed {
			t.Errorf("%s backend connection not closed", f.name)
		}
	}
}

func TestTransportErrorTerminatesSessionWithError(t *testing.T) {
	conn, flight, _, _, done := startTestSession(t)
	defer conn.Close()

	flight.failTransport = true

	// The client gets a final error response before the session closes,
	// so a backend outage is never mistaken for a business rejection
	resp := exchange(t, conn, common.NewRequest(1, common.CmdQueryFlight, common.IntValue(1)))
	if resp.MsgType != common.MsgTError {
		t.Fatalf("expected error response, got %+v", resp)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not terminate after backend failure")
	}
}
