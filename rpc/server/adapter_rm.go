package server

import (
	"fmt"

	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
)

// NewResourceManagerAdapter creates the adapter translating RPC requests
// into resource.IResourceManager calls
func NewResourceManagerAdapter() IRPCServerAdapter {
	return &rmAdapterImpl{}
}

type rmAdapterImpl struct{}

// badRequest builds the error response for a request that is well-formed on
// the wire but invalid at the command level (wrong arity, wrong argument
// types, unknown command). These errors never close the connection.
func badRequest(id uint64, format string, args ...interface{}) *common.Message {
	return common.NewErrorResponse(id, "bad request: "+fmt.Sprintf(format, args...))
}

// internalError builds the error response for a failure inside the resource
// manager itself
func internalError(id uint64, cmd common.Command, err error) *common.Message {
	return common.NewErrorResponse(id, fmt.Sprintf("%s failed: %v", cmd, err))
}

// args extracts exactly want arguments from the request, any other arity is
// a command level error
func args(req *common.Message, want int) ([]common.Value, error) {
	if len(req.Args) != want {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", req.Command, want, len(req.Args))
	}
	return req.Args, nil
}

func (adapter *rmAdapterImpl) Handle(req *common.Message, rm resource.IResourceManager) *common.Message {
	// Check for nil resource manager
	if rm == nil {
		return common.NewErrorResponse(req.ID, "handler: resource manager is nil")
	}

	if req.MsgType != common.MsgTRequest {
		return badRequest(req.ID, "expected a request, got %s", req.MsgType)
	}

	switch req.Command {

	// ---------------------------------------------------------------
	// Flights
	// ---------------------------------------------------------------

	case common.CmdAddFlight:
		a, err := args(req, 3)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		flightNum, err1 := a[0].AsInt()
		seats, err2 := a[1].AsInt()
		price, err3 := a[2].AsInt()
		if err1 != nil || err2 != nil || err3 != nil {
			return badRequest(req.ID, "AddFlight expects int arguments")
		}
		ok, err := rm.AddFlight(flightNum, seats, price)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdDeleteFlight:
		flightNum, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.DeleteFlight(flightNum)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdQueryFlight:
		flightNum, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		n, err := rm.QueryFlight(flightNum)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, n)

	case common.CmdQueryFlightPrice:
		flightNum, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		price, err := rm.QueryFlightPrice(flightNum)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, price)

	case common.CmdReserveFlight:
		a, err := args(req, 2)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		customerID, err1 := a[0].AsInt()
		flightNum, err2 := a[1].AsInt()
		if err1 != nil || err2 != nil {
			return badRequest(req.ID, "ReserveFlight expects int arguments")
		}
		ok, err := rm.ReserveFlight(customerID, flightNum)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	// ---------------------------------------------------------------
	// Cars
	// ---------------------------------------------------------------

	case common.CmdAddCars:
		location, count, price, err := locationCountPrice(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.AddCars(location, count, price)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdDeleteCars:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.DeleteCars(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdQueryCars:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		n, err := rm.QueryCars(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, n)

	case common.CmdQueryCarsPrice:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		price, err := rm.QueryCarsPrice(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, price)

	case common.CmdReserveCar:
		customerID, location, err := customerAndLocation(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.ReserveCar(customerID, location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	// ---------------------------------------------------------------
	// Rooms
	// ---------------------------------------------------------------

	case common.CmdAddRooms:
		location, count, price, err := locationCountPrice(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.AddRooms(location, count, price)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdDeleteRooms:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.DeleteRooms(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdQueryRooms:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		n, err := rm.QueryRooms(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, n)

	case common.CmdQueryRoomsPrice:
		location, err := singleString(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		price, err := rm.QueryRoomsPrice(location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, price)

	case common.CmdReserveRoom:
		customerID, location, err := customerAndLocation(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.ReserveRoom(customerID, location)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	// ---------------------------------------------------------------
	// Customers
	// ---------------------------------------------------------------

	case common.CmdNewCustomer:
		if _, err := args(req, 0); err != nil {
			return badRequest(req.ID, "%v", err)
		}
		id, err := rm.NewCustomer()
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewIntResponse(req.ID, id)

	case common.CmdNewCustomerID:
		customerID, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.NewCustomerID(customerID)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdDeleteCustomer:
		customerID, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		ok, err := rm.DeleteCustomer(customerID)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewBoolResponse(req.ID, ok)

	case common.CmdQueryCustomer:
		customerID, err := singleInt(req)
		if err != nil {
			return badRequest(req.ID, "%v", err)
		}
		bill, err := rm.QueryCustomer(customerID)
		if err != nil {
			return internalError(req.ID, req.Command, err)
		}
		return common.NewStringResponse(req.ID, bill)

	default:
		// Bundle is coordinated across backends and never reaches a
		// resource server directly
		return badRequest(req.ID, "unsupported command: %s", req.Command)
	}
}

// --------------------------------------------------------------------------
// Argument helpers
// --------------------------------------------------------------------------

func singleInt(req *common.Message) (int64, error) {
	a, err := args(req, 1)
	if err != nil {
		return 0, err
	}
	v, err := a[0].AsInt()
	if err != nil {
		return 0, fmt.Errorf("%s expects an int argument", req.Command)
	}
	return v, nil
}

func singleString(req *common.Message) (string, error) {
	a, err := args(req, 1)
	if err != nil {
		return "", err
	}
	v, err := a[0].AsString()
	if err != nil {
		return "", fmt.Errorf("%s expects a string argument", req.Command)
	}
	return v, nil
}

func locationCountPrice(req *common.Message) (string, int64, int64, error) {
	a, err := args(req, 3)
	if err != nil {
		return "", 0, 0, err
	}
	location, err1 := a[0].AsString()
	count, err2 := a[1].AsInt()
	price, err3 := a[2].AsInt()
	if err1 != nil || err2 != nil || err3 != nil {
		return "", 0, 0, fmt.Errorf("%s expects (string, int, int) arguments", req.Command)
	}
	return location, count, price, nil
}

func customerAndLocation(req *common.Message) (int64, string, error) {
	a, err := args(req, 2)
	if err != nil {
		return 0, "", err
	}
	customerID, err1 := a[0].AsInt()
	location, err2 := a[1].AsString()
	if err1 != nil || err2 != nil {
		return 0, "", fmt.Errorf("%s expects (int, string) arguments", req.Command)
	}
	return customerID, location, nil
}
