package middleware

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/server"
)

// fakeBackend implements IBackendCaller on an in-process resource manager,
// driven through the real server adapter so request handling matches a live
// backend. Setting failTransport simulates a broken connection.
type fakeBackend struct {
	name          string
	rm            resource.IResourceManager
	adapter       server.IRPCServerAdapter
	calls         int
	failTransport bool
	closed        bool
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{
		name:    name,
		rm:      resource.NewResourceManager(),
		adapter: server.NewResourceManagerAdapter(),
	}
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Forward(req *common.Message) (*common.Message, error) {
	f.calls++
	if f.failTransport {
		return nil, common.NewTransportError("send", fmt.Errorf("connection reset"))
	}
	return f.adapter.Handle(req, f.rm), nil
}

func (f *fakeBackend) Call(cmd common.Command, args ...common.Value) (*common.Message, error) {
	resp, err := f.Forward(common.NewRequest(0, cmd, args...))
	if err != nil {
		return nil, err
	}
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, common.NewRemoteError(fmt.Sprintf("backend %s: %s", f.name, resp.Err))
	}
	return resp, nil
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

// testCoordinator creates a coordinator over three fresh fake backends
func testCoordinator() (*coordinator, *fakeBackend, *fakeBackend, *fakeBackend) {
	flight := newFakeBackend("flight")
	car := newFakeBackend("car")
	room := newFakeBackend("room")
	return newCoordinator(flight, car, room, resource.NewCustomerIDSource()), flight, car, room
}

// mustHandle runs one request and fails the test on a fatal error
func mustHandle(t *testing.T, c *coordinator, req *common.Message) *common.Message {
	t.Helper()
	resp, err := c.Handle(req)
	if err != nil {
		t.Fatalf("%s: unexpected fatal error: %v", req.Command, err)
	}
	if resp == nil {
		t.Fatalf("%s: nil response", req.Command)
	}
	return resp
}

func TestRoutingSingleBackendCommands(t *testing.T) {
	c, flight, car, room := testCoordinator()

	// A flight command must reach only the flight backend
	resp := mustHandle(t, c, common.NewRequest(1, common.CmdAddFlight,
		common.IntValue(100), common.IntValue(10), common.IntValue(50)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("AddFlight response = %+v", resp)
	}
	if flight.calls != 1 || car.calls != 0 || room.calls != 0 {
		t.Errorf("backend calls = flight:%d car:%d room:%d, want 1/0/0",
			flight.calls, car.calls, room.calls)
	}

	// A car command must reach only the car backend
	mustHandle(t, c, common.NewRequest(2, common.CmdAddCars,
		common.StringValue("montreal"), common.IntValue(5), common.IntValue(30)))
	if car.calls != 1 {
		t.Errorf("car backend calls = %d, want 1", car.calls)
	}

	// A room command must reach only the room backend
	mustHandle(t, c, common.NewRequest(3, common.CmdQueryRooms, common.StringValue("berlin")))
	if room.calls != 1 {
		t.Errorf("room backend calls = %d, want 1", room.calls)
	}
}

func TestResponsesEchoRequestID(t *testing.T) {
	c, _, _, _ := testCoordinator()

	reqs := []*common.Message{
		common.NewRequest(17, common.CmdAddFlight,
			common.IntValue(1), common.IntValue(1), common.IntValue(1)),
		common.NewRequest(99, common.CmdNewCustomer),
		common.NewRequest(123456, common.CmdQueryCars, common.StringValue("x")),
		common.NewRequest(7, common.CmdBundle), // malformed, still echoes id
	}

	for _, req := range reqs {
		resp := mustHandle(t, c, req)
		if resp.ID != req.ID {
			t.Errorf("%s: response id = %d, want %d", req.Command, resp.ID, req.ID)
		}
	}
}

func TestCustomerLifecycleFanout(t *testing.T) {
	c, flight, car, room := testCoordinator()

	// NewCustomerID creates the customer on all three backends
	resp := mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(42)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("NewCustomerID response = %+v", resp)
	}
	for _, f := range []*fakeBackend{flight, car, room} {
		if bill, _ := f.rm.QueryCustomer(42); bill == "" {
			t.Errorf("customer 42 missing on %s backend", f.name)
		}
	}

	// A duplicate id is rejected with the AND of the three results
	resp = mustHandle(t, c, common.NewRequest(2, common.CmdNewCustomerID, common.IntValue(42)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Error("duplicate NewCustomerID succeeded")
	}

	// DeleteCustomer removes the customer everywhere
	resp = mustHandle(t, c, common.NewRequest(3, common.CmdDeleteCustomer, common.IntValue(42)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("DeleteCustomer response = %+v", resp)
	}
	for _, f := range []*fakeBackend{flight, car, room} {
		if bill, _ := f.rm.QueryCustomer(42); bill != "" {
			t.Errorf("customer 42 still present on %s backend", f.name)
		}
	}

	// Deleting again fails on every backend
	resp = mustHandle(t, c, common.NewRequest(4, common.CmdDeleteCustomer, common.IntValue(42)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Error("DeleteCustomer succeeded for missing customer")
	}
}

func TestLifecycleFanoutDoesNotShortCircuit(t *testing.T) {
	c, flight, car, room := testCoordinator()

	// Customer 8 exists on car and room but not flight, so the first backend
	// in the fan-out returns false. The remaining two must still be called.
	car.rm.NewCustomerID(8)
	room.rm.NewCustomerID(8)

	resp := mustHandle(t, c, common.NewRequest(1, common.CmdDeleteCustomer, common.IntValue(8)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Error("DeleteCustomer aggregate succeeded despite missing customer on flight backend")
	}
	for _, f := range []*fakeBackend{flight, car, room} {
		if f.calls != 1 {
			t.Errorf("%s backend calls = %d, want 1", f.name, f.calls)
		}
	}
}

func TestLifecycleFanoutAttemptsAllOnTransportFailure(t *testing.T) {
	c, flight, car, room := testCoordinator()
	flight.failTransport = true

	car.rm.NewCustomerID(8)
	room.rm.NewCustomerID(8)

	// The broken flight backend is fatal for the session, but the delete is
	// still issued to car and room so the failure is observable on all three
	_, err := c.Handle(common.NewRequest(1, common.CmdDeleteCustomer, common.IntValue(8)))
	if err == nil {
		t.Fatal("expected fatal error, got none")
	}
	if !common.IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}
	for _, f := range []*fakeBackend{flight, car, room} {
		if f.calls != 1 {
			t.Errorf("%s backend calls = %d, want 1", f.name, f.calls)
		}
	}

	// The delete reached the healthy backends
	for _, f := range []*fakeBackend{car, room} {
		if bill, _ := f.rm.QueryCustomer(8); bill != "" {
			t.Errorf("customer 8 still present on %s backend", f.name)
		}
	}
}

func TestNewCustomerGeneratesID(t *testing.T) {
	c, flight, car, room := testCoordinator()

	resp := mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomer))
	id, err := resp.Result.AsInt()
	if err != nil {
		t.Fatalf("NewCustomer response = %+v", resp)
	}
	for _, f := range []*fakeBackend{flight, car, room} {
		if bill, _ := f.rm.QueryCustomer(id); bill == "" {
			t.Errorf("generated customer %d missing on %s backend", id, f.name)
		}
	}

	// A second customer gets a different id
	resp = mustHandle(t, c, common.NewRequest(2, common.CmdNewCustomer))
	id2, _ := resp.Result.AsInt()
	if id2 == id {
		t.Errorf("NewCustomer returned duplicate id %d", id)
	}
}

func TestQueryCustomerConcatenatesBills(t *testing.T) {
	c, flight, car, room := testCoordinator()

	mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(5)))
	flight.rm.AddFlight(10, 5, 100)
	car.rm.AddCars("montreal", 5, 30)
	room.rm.AddRooms("montreal", 5, 80)
	flight.rm.ReserveFlight(5, 10)
	car.rm.ReserveCar(5, "montreal")
	room.rm.ReserveRoom(5, "montreal")

	resp := mustHandle(t, c, common.NewRequest(2, common.CmdQueryCustomer, common.IntValue(5)))
	bill, err := resp.Result.AsString()
	if err != nil {
		t.Fatalf("QueryCustomer response = %+v", resp)
	}

	// The bill carries the fragments in flight, car, room order
	iFlight := strings.Index(bill, "flight-10")
	iCar := strings.Index(bill, "car-montreal")
	iRoom := strings.Index(bill, "room-montreal")
	if iFlight < 0 || iCar < 0 || iRoom < 0 {
		t.Fatalf("bill misses fragments: %q", bill)
	}
	if !(iFlight < iCar && iCar < iRoom) {
		t.Errorf("bill fragments out of order: %q", bill)
	}
}

func TestBundleSuccess(t *testing.T) {
	c, flight, car, room := testCoordinator()

	mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(1)))
	flight.rm.AddFlight(100, 2, 250)
	flight.rm.AddFlight(200, 1, 300)
	car.rm.AddCars("paris", 1, 40)
	room.rm.AddRooms("paris", 1, 90)

	// Two seats on flight 100, one on 200, plus car and room
	resp := mustHandle(t, c, common.NewRequest(2, common.CmdBundle,
		common.IntValue(1),
		common.ListValue([]string{"100", "100", "200"}),
		common.StringValue("paris"),
		common.BoolValue(true),
		common.BoolValue(true)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("Bundle response = %+v", resp)
	}

	if n, _ := flight.rm.QueryFlight(100); n != 0 {
		t.Errorf("flight 100 seats = %d, want 0", n)
	}
	if n, _ := flight.rm.QueryFlight(200); n != 0 {
		t.Errorf("flight 200 seats = %d, want 0", n)
	}
	if n, _ := car.rm.QueryCars("paris"); n != 0 {
		t.Errorf("cars at paris = %d, want 0", n)
	}
	if n, _ := room.rm.QueryRooms("paris"); n != 0 {
		t.Errorf("rooms at paris = %d, want 0", n)
	}
}

func TestBundleRejectedOnInsufficientSeats(t *testing.T) {
	c, flight, _, _ := testCoordinator()

	mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(1)))
	flight.rm.AddFlight(100, 1, 250)

	// Demand of two seats against one available is rejected at admission
	resp := mustHandle(t, c, common.NewRequest(2, common.CmdBundle,
		common.IntValue(1),
		common.ListValue([]string{"100", "100"}),
		common.StringValue("paris"),
		common.BoolValue(false),
		common.BoolValue(false)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Fatal("Bundle succeeded despite insufficient seats")
	}

	// Nothing was reserved
	if n, _ := flight.rm.QueryFlight(100); n != 1 {
		t.Errorf("flight 100 seats = %d, want 1", n)
	}
}

func TestBundleRejectedForUnknownCustomer(t *testing.T) {
	c, flight, _, _ := testCoordinator()

	flight.rm.AddFlight(100, 5, 250)

	// Customer 999 was never created, admission fails before any reserve
	resp := mustHandle(t, c, common.NewRequest(1, common.CmdBundle,
		common.IntValue(999),
		common.ListValue([]string{"100"}),
		common.StringValue("paris"),
		common.BoolValue(false),
		common.BoolValue(false)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Fatal("Bundle succeeded for unknown customer")
	}
	if n, _ := flight.rm.QueryFlight(100); n != 5 {
		t.Errorf("flight 100 seats = %d, want 5", n)
	}
}

func TestBundleAdmissionPrecedesCommit(t *testing.T) {
	c, flight, car, _ := testCoordinator()

	mustHandle(t, c, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(1)))
	flight.rm.AddFlight(100, 5, 250)
	// No cars anywhere

	resp := mustHandle(t, c, common.NewRequest(2, common.CmdBundle,
		common.IntValue(1),
		common.ListValue([]string{"100"}),
		common.StringValue("paris"),
		common.BoolValue(true),
		common.BoolValue(false)))
	if ok, _ := resp.Result.AsBool(); ok {
		t.Fatal("Bundle succeeded despite missing car")
	}

	// The car check failed at admission, so the flight was never touched
	if n, _ := flight.rm.QueryFlight(100); n != 5 {
		t.Errorf("flight 100 seats = %d, want 5", n)
	}
	if car.calls == 0 {
		t.Error("car backend was never queried")
	}
}

func TestBundleBadArguments(t *testing.T) {
	c, _, _, _ := testCoordinator()

	testCases := []struct {
		name string
		msg  *common.Message
	}{
		{
			name: "wrong arity",
			msg:  common.NewRequest(1, common.CmdBundle, common.IntValue(1)),
		},
		{
			name: "wrong types",
			msg: common.NewRequest(2, common.CmdBundle,
				common.StringValue("not an id"),
				common.ListValue([]string{"1"}),
				common.StringValue("x"),
				common.BoolValue(false),
				common.BoolValue(false)),
		},
		{
			name: "unparsable flight number",
			msg: common.NewRequest(3, common.CmdBundle,
				common.IntValue(1),
				common.ListValue([]string{"abc"}),
				common.StringValue("x"),
				common.BoolValue(false),
				common.BoolValue(false)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := mustHandle(t, c, tc.msg)
			if resp.MsgType != common.MsgTError {
				t.Fatalf("expected error response, got %+v", resp)
			}
			if !strings.HasPrefix(resp.Err, "bad request: ") {
				t.Errorf("error text %q misses bad request prefix", resp.Err)
			}
		})
	}
}

func TestTransportErrorIsFatal(t *testing.T) {
	c, flight, car, _ := testCoordinator()
	flight.failTransport = true

	// A broken backend on a forwarded command terminates the session
	_, err := c.Handle(common.NewRequest(1, common.CmdQueryFlight, common.IntValue(1)))
	if err == nil {
		t.Fatal("expected fatal error, got none")
	}
	if !common.IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}

	// Same for a fan-out command
	_, err = c.Handle(common.NewRequest(2, common.CmdNewCustomerID, common.IntValue(1)))
	if err == nil {
		t.Fatal("expected fatal error on fan-out, got none")
	}
	if !common.IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}

	// The car backend alone still works through its own commands
	car.rm.AddCars("x", 1, 1)
	resp, err := c.Handle(common.NewRequest(3, common.CmdQueryCars, common.StringValue("x")))
	if err != nil {
		t.Fatalf("car command failed: %v", err)
	}
	if n, _ := resp.Result.AsInt(); n != 1 {
		t.Errorf("QueryCars = %+v", resp)
	}
}

func TestBackendErrorResponseIsRelayedNotFatal(t *testing.T) {
	c, _, _, _ := testCoordinator()

	// A forwarded request the backend rejects yields an error response
	// that is relayed to the client without closing the session
	resp, err := c.Handle(common.NewRequest(1, common.CmdQueryFlight, common.StringValue("not a number")))
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if resp.MsgType != common.MsgTError {
		t.Fatalf("expected error response, got %+v", resp)
	}

	// The session is still usable afterwards
	resp = mustHandle(t, c, common.NewRequest(2, common.CmdNewCustomer))
	if _, err := resp.Result.AsInt(); err != nil {
		t.Errorf("NewCustomer after relayed error failed: %+v", resp)
	}
}
