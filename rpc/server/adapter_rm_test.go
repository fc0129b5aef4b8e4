package server

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
)

// handle runs one request through a fresh adapter against the given manager
func handle(t *testing.T, rm resource.IResourceManager, msg *common.Message) *common.Message {
	t.Helper()
	resp := NewResourceManagerAdapter().Handle(msg, rm)
	if resp == nil {
		t.Fatal("adapter returned nil response")
	}
	return resp
}

func TestAdapterEchoesRequestID(t *testing.T) {
	rm := resource.NewResourceManager()

	reqs := []*common.Message{
		common.NewRequest(1, common.CmdAddFlight, common.IntValue(1), common.IntValue(10), common.IntValue(100)),
		common.NewRequest(77, common.CmdQueryFlight, common.IntValue(1)),
		common.NewRequest(12345, common.CmdNewCustomer),
		// Malformed request, the error response still carries the id
		common.NewRequest(999, common.CmdAddFlight),
	}

	for _, req := range reqs {
		resp := handle(t, rm, req)
		if resp.ID != req.ID {
			t.Errorf("%s: response id = %d, want %d", req.Command, resp.ID, req.ID)
		}
	}
}

func TestAdapterFlightLifecycle(t *testing.T) {
	rm := resource.NewResourceManager()

	// Add a flight
	resp := handle(t, rm, common.NewRequest(1, common.CmdAddFlight,
		common.IntValue(100), common.IntValue(2), common.IntValue(300)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("AddFlight response = %+v", resp)
	}

	// Query seats and price
	resp = handle(t, rm, common.NewRequest(2, common.CmdQueryFlight, common.IntValue(100)))
	if n, err := resp.Result.AsInt(); err != nil || n != 2 {
		t.Errorf("QueryFlight response = %+v", resp)
	}
	resp = handle(t, rm, common.NewRequest(3, common.CmdQueryFlightPrice, common.IntValue(100)))
	if p, err := resp.Result.AsInt(); err != nil || p != 300 {
		t.Errorf("QueryFlightPrice response = %+v", resp)
	}

	// Reserve for a customer
	resp = handle(t, rm, common.NewRequest(4, common.CmdNewCustomerID, common.IntValue(7)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("NewCustomerID response = %+v", resp)
	}
	resp = handle(t, rm, common.NewRequest(5, common.CmdReserveFlight, common.IntValue(7), common.IntValue(100)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("ReserveFlight response = %+v", resp)
	}

	// Flight with a reservation cannot be deleted, this is a business
	// rejection and not an error
	resp = handle(t, rm, common.NewRequest(6, common.CmdDeleteFlight, common.IntValue(100)))
	if resp.MsgType != common.MsgTResponse {
		t.Fatalf("DeleteFlight returned %s, want a response", resp.MsgType)
	}
	if ok, _ := resp.Result.AsBool(); ok {
		t.Error("DeleteFlight succeeded despite reservation")
	}
}

func TestAdapterCarsAndRooms(t *testing.T) {
	rm := resource.NewResourceManager()

	resp := handle(t, rm, common.NewRequest(1, common.CmdAddCars,
		common.StringValue("montreal"), common.IntValue(3), common.IntValue(40)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("AddCars response = %+v", resp)
	}

	resp = handle(t, rm, common.NewRequest(2, common.CmdQueryCarsPrice, common.StringValue("montreal")))
	if p, err := resp.Result.AsInt(); err != nil || p != 40 {
		t.Errorf("QueryCarsPrice response = %+v", resp)
	}

	resp = handle(t, rm, common.NewRequest(3, common.CmdAddRooms,
		common.StringValue("berlin"), common.IntValue(1), common.IntValue(90)))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Fatalf("AddRooms response = %+v", resp)
	}

	resp = handle(t, rm, common.NewRequest(4, common.CmdDeleteRooms, common.StringValue("berlin")))
	if ok, err := resp.Result.AsBool(); err != nil || !ok {
		t.Errorf("DeleteRooms response = %+v", resp)
	}
}

func TestAdapterCustomerBill(t *testing.T) {
	rm := resource.NewResourceManager()

	handle(t, rm, common.NewRequest(1, common.CmdNewCustomerID, common.IntValue(9)))
	handle(t, rm, common.NewRequest(2, common.CmdAddFlight,
		common.IntValue(5), common.IntValue(10), common.IntValue(150)))
	handle(t, rm, common.NewRequest(3, common.CmdReserveFlight, common.IntValue(9), common.IntValue(5)))

	resp := handle(t, rm, common.NewRequest(4, common.CmdQueryCustomer, common.IntValue(9)))
	bill, err := resp.Result.AsString()
	if err != nil {
		t.Fatalf("QueryCustomer response = %+v", resp)
	}
	if !strings.HasPrefix(bill, "Bill for customer 9\n") || !strings.Contains(bill, "1 flight-5 $150\n") {
		t.Errorf("unexpected bill: %q", bill)
	}

	// Missing customer yields an empty string, not an error
	resp = handle(t, rm, common.NewRequest(5, common.CmdQueryCustomer, common.IntValue(404)))
	if resp.MsgType != common.MsgTResponse {
		t.Fatalf("QueryCustomer for missing customer returned %s", resp.MsgType)
	}
	if bill, _ := resp.Result.AsString(); bill != "" {
		t.Errorf("bill for missing customer = %q, want empty", bill)
	}
}

func TestAdapterBadRequests(t *testing.T) {
	rm := resource.NewResourceManager()

	testCases := []struct {
		name string
		msg  *common.Message
	}{
		{
			name: "wrong arity",
			msg:  common.NewRequest(1, common.CmdAddFlight, common.IntValue(1)),
		},
		{
			name: "wrong argument type",
			msg:  common.NewRequest(2, common.CmdQueryFlight, common.StringValue("not a number")),
		},
		{
			name: "unknown command",
			msg:  common.NewRequest(3, common.CmdUnknown),
		},
		{
			name: "bundle on a backend",
			msg: common.NewRequest(4, common.CmdBundle,
				common.IntValue(1), common.ListValue([]string{"1"}),
				common.StringValue("x"), common.BoolValue(false), common.BoolValue(false)),
		},
		{
			name: "response instead of request",
			msg:  common.NewBoolResponse(5, true),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := handle(t, rm, tc.msg)
			if resp.MsgType != common.MsgTError {
				t.Fatalf("expected error response, got %+v", resp)
			}
			if resp.ID != tc.msg.ID {
				t.Errorf("error response id = %d, want %d", resp.ID, tc.msg.ID)
			}
			if !strings.HasPrefix(resp.Err, "bad request: ") {
				t.Errorf("error text %q misses bad request prefix", resp.Err)
			}
		})
	}
}
