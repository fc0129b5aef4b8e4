package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
)

// coordinator routes client requests to the backend resource servers and
// implements the operations that span more than one backend (customer
// lifecycle, billing, bundles).
//
// A coordinator belongs to exactly one client session and is driven
// sequentially, one request at a time. The customer id source is shared
// between all sessions of a middleware so ids stay unique process-wide.
type coordinator struct {
	flight IBackendCaller
	car    IBackendCaller
	room   IBackendCaller
	ids    *resource.CustomerIDSource
}

func newCoordinator(flight, car, room IBackendCaller, ids *resource.CustomerIDSource) *coordinator {
	return &coordinator{flight: flight, car: car, room: room, ids: ids}
}

// backendFor returns the backend serving a single-backend command class
func (c *coordinator) backendFor(class common.CommandClass) IBackendCaller {
	switch class {
	case common.ClassFlight:
		return c.flight
	case common.ClassCar:
		return c.car
	case common.ClassRoom:
		return c.room
	default:
		return nil
	}
}

// Handle processes one client request and returns the response to send.
//
// A non-nil error means the session is no longer usable: either a backend
// connection failed or a backend violated the protocol. The session layer
// reports the error to the client and closes the connection. All other
// failures (bad requests, backend error responses, business rejections) are
// regular responses and leave the session open.
func (c *coordinator) Handle(req *common.Message) (*common.Message, error) {
	if req.MsgType != common.MsgTRequest {
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: expected a request, got %s", req.MsgType)), nil
	}

	class := req.Command.Class()
	metrics.GetOrCreateCounter(fmt.Sprintf(`middleware_requests_total{class=%q}`, class)).Inc()

	// Single-backend commands are forwarded verbatim
	if backend := c.backendFor(class); backend != nil {
		resp, err := backend.Forward(req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	// Cross-backend commands are coordinated here
	switch req.Command {
	case common.CmdNewCustomer:
		return c.newCustomer(req)
	case common.CmdNewCustomerID:
		return c.newCustomerID(req)
	case common.CmdDeleteCustomer:
		return c.deleteCustomer(req)
	case common.CmdQueryCustomer:
		return c.queryCustomer(req)
	case common.CmdBundle:
		return c.bundle(req)
	default:
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: unsupported command: %s", req.Command)), nil
	}
}

// respondErr maps an internal failure to either an error response (backend
// rejected the operation, session survives) or a fatal error (transport or
// protocol failure, session closes)
func respondErr(req *common.Message, err error) (*common.Message, error) {
	if common.IsRemoteError(err) {
		return common.NewErrorResponse(req.ID, err.Error()), nil
	}
	return nil, err
}

// --------------------------------------------------------------------------
// Customer lifecycle
// --------------------------------------------------------------------------

// fanoutBool calls cmd on all three backends and ANDs the boolean results.
// The call is issued to every backend even after an earlier one failed, so a
// failure stays observable on all three. Collected failures are reported
// afterwards, a transport or protocol failure takes precedence over backend
// error responses so the session still closes on a broken connection.
func (c *coordinator) fanoutBool(cmd common.Command, args ...common.Value) (bool, error) {
	all := true
	var errs []error
	for _, backend := range []IBackendCaller{c.flight, c.car, c.room} {
		resp, err := backend.Call(cmd, args...)
		if err != nil {
			Logger.Warningf("%s fan-out to %s backend failed: %v", cmd, backend.Name(), err)
			errs = append(errs, err)
			continue
		}
		ok, err := resp.Result.AsBool()
		if err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %v", backend.Name(), err))
			continue
		}
		all = all && ok
	}
	for _, err := range errs {
		if !common.IsRemoteError(err) {
			return false, err
		}
	}
	if len(errs) > 0 {
		return false, errs[0]
	}
	return all, nil
}

func (c *coordinator) newCustomer(req *common.Message) (*common.Message, error) {
	if len(req.Args) != 0 {
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: %s expects 0 arguments, got %d", req.Command, len(req.Args))), nil
	}

	id := c.ids.Next()
	ok, err := c.fanoutBool(common.CmdNewCustomerID, common.IntValue(id))
	if err != nil {
		return respondErr(req, err)
	}
	if !ok {
		// A generated id collided on some backend, the client can retry
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("failed to create customer %d on all backends", id)), nil
	}
	return common.NewIntResponse(req.ID, id), nil
}

func (c *coordinator) newCustomerID(req *common.Message) (*common.Message, error) {
	customerID, ok := singleIntArg(req)
	if !ok {
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: %s expects one int argument", req.Command)), nil
	}

	created, err := c.fanoutBool(common.CmdNewCustomerID, common.IntValue(customerID))
	if err != nil {
		return respondErr(req, err)
	}
	return common.NewBoolResponse(req.ID, created), nil
}

func (c *coordinator) deleteCustomer(req *common.Message) (*common.Message, error) {
	customerID, ok := singleIntArg(req)
	if !ok {
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: %s expects one int argument", req.Command)), nil
	}

	deleted, err := c.fanoutBool(common.CmdDeleteCustomer, common.IntValue(customerID))
	if err != nil {
		return respondErr(req, err)
	}
	return common.NewBoolResponse(req.ID, deleted), nil
}

// queryCustomer collects the bill fragments of all three backends and
// concatenates them in flight, car, room order
func (c *coordinator) queryCustomer(req *common.Message) (*common.Message, error) {
	customerID, ok := singleIntArg(req)
	if !ok {
		return common.NewErrorResponse(req.ID,
			fmt.Sprintf("bad request: %s expects one int argument", req.Command)), nil
	}

	var sb strings.Builder
	for _, backend := range []IBackendCaller{c.flight, c.car, c.room} {
		resp, err := backend.Call(common.CmdQueryCustomer, common.IntValue(customerID))
		if err != nil {
			return respondErr(req, err)
		}
		fragment, err := resp.Result.AsString()
		if err != nil {
			return nil, fmt.Errorf("backend %s: %v", backend.Name(), err)
		}
		sb.WriteString(fragment)
	}
	return common.NewStringResponse(req.ID, sb.String()), nil
}

// --------------------------------------------------------------------------
// Bundle
// --------------------------------------------------------------------------

// bundle reserves a sequence of flights plus optionally a car and a room.
//
// The operation runs in two phases. The admission phase checks that every
// demanded resource is available: each flight must have at least as many
// seats as it occurs in the sequence, and car/room availability at the
// location must be positive if demanded. Only if every check passes does the
// commit phase issue the individual reservations, flights first, then car,
// then room.
//
// The commit phase has no rollback: if a reservation fails after admission
// (a concurrent client took the last seat), the bundle reports false and
// already-made reservations stay in place. This window is logged.
func (c *coordinator) bundle(req *common.Message) (*common.Message, error) {
	customerID, flightNums, location, reserveCar, reserveRoom, ok := bundleArgs(req)
	if !ok {
		return common.NewErrorResponse(req.ID,
			"bad request: Bundle expects (int, string list, string, bool, bool) arguments"), nil
	}

	// Parse the flight sequence, grouping repeated flights into demand
	// counts and keeping the original order for the commit phase
	demand := make(map[int64]int64)
	sequence := make([]int64, 0, len(flightNums))
	for _, s := range flightNums {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return common.NewErrorResponse(req.ID,
				fmt.Sprintf("bad request: invalid flight number %q", s)), nil
		}
		demand[n]++
		sequence = append(sequence, n)
	}

	// Admission phase
	admitted, resp, err := c.admitBundle(req, customerID, demand, location, reserveCar, reserveRoom)
	if err != nil || resp != nil {
		return resp, err
	}
	if !admitted {
		metrics.GetOrCreateCounter(`middleware_bundle_rejected_total`).Inc()
		return common.NewBoolResponse(req.ID, false), nil
	}

	// Commit phase
	committed, resp, err := c.commitBundle(req, customerID, sequence, location, reserveCar, reserveRoom)
	if err != nil || resp != nil {
		return resp, err
	}
	if !committed {
		metrics.GetOrCreateCounter(`middleware_bundle_rejected_total`).Inc()
		return common.NewBoolResponse(req.ID, false), nil
	}

	metrics.GetOrCreateCounter(`middleware_bundle_admitted_total`).Inc()
	return common.NewBoolResponse(req.ID, true), nil
}

// admitBundle runs the existence and availability checks. A non-nil response
// or error short-circuits the bundle (backend error response or fatal
// failure).
func (c *coordinator) admitBundle(req *common.Message, customerID int64, demand map[int64]int64, location string, reserveCar, reserveRoom bool) (bool, *common.Message, error) {
	queryCount := func(backend IBackendCaller, cmd common.Command, arg common.Value) (int64, *common.Message, error) {
		resp, err := backend.Call(cmd, arg)
		if err != nil {
			r, e := respondErr(req, err)
			return 0, r, e
		}
		n, err := resp.Result.AsInt()
		if err != nil {
			return 0, nil, fmt.Errorf("backend %s: %v", backend.Name(), err)
		}
		return n, nil, nil
	}

	// The flight backend is the source of truth for customer existence, an
	// empty bill fragment means the customer is unknown
	resp, err := c.flight.Call(common.CmdQueryCustomer, common.IntValue(customerID))
	if err != nil {
		r, e := respondErr(req, err)
		return false, r, e
	}
	bill, err := resp.Result.AsString()
	if err != nil {
		return false, nil, fmt.Errorf("backend %s: %v", c.flight.Name(), err)
	}
	if bill == "" {
		Logger.Infof("bundle rejected: unknown customer %d", customerID)
		return false, nil, nil
	}

	for flightNum, needed := range demand {
		avail, resp, err := queryCount(c.flight, common.CmdQueryFlight, common.IntValue(flightNum))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if avail < needed {
			Logger.Infof("bundle rejected: flight %d has %d seats, %d demanded", flightNum, avail, needed)
			return false, nil, nil
		}
	}

	if reserveCar {
		avail, resp, err := queryCount(c.car, common.CmdQueryCars, common.StringValue(location))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if avail <= 0 {
			Logger.Infof("bundle rejected: no cars at %s", location)
			return false, nil, nil
		}
	}

	if reserveRoom {
		avail, resp, err := queryCount(c.room, common.CmdQueryRooms, common.StringValue(location))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if avail <= 0 {
			Logger.Infof("bundle rejected: no rooms at %s", location)
			return false, nil, nil
		}
	}

	return true, nil, nil
}

// commitBundle issues the individual reservations after admission
func (c *coordinator) commitBundle(req *common.Message, customerID int64, sequence []int64, location string, reserveCar, reserveRoom bool) (bool, *common.Message, error) {
	reserve := func(backend IBackendCaller, cmd common.Command, args ...common.Value) (bool, *common.Message, error) {
		resp, err := backend.Call(cmd, args...)
		if err != nil {
			r, e := respondErr(req, err)
			return false, r, e
		}
		ok, err := resp.Result.AsBool()
		if err != nil {
			return false, nil, fmt.Errorf("backend %s: %v", backend.Name(), err)
		}
		return ok, nil, nil
	}

	for i, flightNum := range sequence {
		ok, resp, err := reserve(c.flight, common.CmdReserveFlight,
			common.IntValue(customerID), common.IntValue(flightNum))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if !ok {
			Logger.Warningf("bundle commit failed at flight %d (%d of %d reserved), earlier reservations are kept",
				flightNum, i, len(sequence))
			return false, nil, nil
		}
	}

	if reserveCar {
		ok, resp, err := reserve(c.car, common.CmdReserveCar,
			common.IntValue(customerID), common.StringValue(location))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if !ok {
			Logger.Warningf("bundle commit failed at car %s, flight reservations are kept", location)
			return false, nil, nil
		}
	}

	if reserveRoom {
		ok, resp, err := reserve(c.room, common.CmdReserveRoom,
			common.IntValue(customerID), common.StringValue(location))
		if err != nil || resp != nil {
			return false, resp, err
		}
		if !ok {
			Logger.Warningf("bundle commit failed at room %s, earlier reservations are kept", location)
			return false, nil, nil
		}
	}

	return true, nil, nil
}

// --------------------------------------------------------------------------
// Argument helpers
// --------------------------------------------------------------------------

func singleIntArg(req *common.Message) (int64, bool) {
	if len(req.Args) != 1 {
		return 0, false
	}
	v, err := req.Args[0].AsInt()
	if err != nil {
		return 0, false
	}
	return v, true
}

func bundleArgs(req *common.Message) (customerID int64, flightNums []string, location string, reserveCar, reserveRoom, ok bool) {
	if len(req.Args) != 5 {
		return 0, nil, "", false, false, false
	}
	customerID, err1 := req.Args[0].AsInt()
	flightNums, err2 := req.Args[1].AsList()
	location, err3 := req.Args[2].AsString()
	reserveCar, err4 := req.Args[3].AsBool()
	reserveRoom, err5 := req.Args[4].AsBool()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return 0, nil, "", false, false, false
	}
	return customerID, flightNums, location, reserveCar, reserveRoom, true
}
