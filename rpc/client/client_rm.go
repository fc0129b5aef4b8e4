package client

import (
	"github.com/ValentinKolb/tRS/lib/resource"
	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/serializer"
	"github.com/ValentinKolb/tRS/rpc/transport"
)

// IReservationClient is the client side view of the reservation system. It
// mirrors the resource manager operations and adds the middleware-only
// Bundle operation.
type IReservationClient interface {
	resource.IResourceManager

	// Bundle reserves a sequence of flights plus optionally a car and a
	// room at a location, all or nothing at admission time. The flight
	// numbers are passed as decimal strings, repeated entries reserve
	// multiple seats on the same flight.
	Bundle(customerID int64, flightNums []string, location string, reserveCar, reserveRoom bool) (bool, error)

	// Close closes the underlying transport connection
	Close() error
}

// NewReservationClient creates a new RPC reservation client
// The function takes a config, a transport and a serializer as parameters
func NewReservationClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (IReservationClient, error) {

	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	c := reservationClient{
		rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	return &c, nil
}

type reservationClient struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Invocation helpers
// --------------------------------------------------------------------------

func (c *reservationClient) callBool(cmd common.Command, args ...common.Value) (bool, error) {
	req := common.NewRequest(c.newRequestID(), cmd, args...)
	resp, err := invokeRPCRequest(req, c.transport, c.serializer)
	if err != nil {
		return false, err
	}
	return resp.Result.AsBool()
}

func (c *reservationClient) callInt(cmd common.Command, args ...common.Value) (int64, error) {
	req := common.NewRequest(c.newRequestID(), cmd, args...)
	resp, err := invokeRPCRequest(req, c.transport, c.serializer)
	if err != nil {
		return 0, err
	}
	return resp.Result.AsInt()
}

func (c *reservationClient) callString(cmd common.Command, args ...common.Value) (string, error) {
	req := common.NewRequest(c.newRequestID(), cmd, args...)
	resp, err := invokeRPCRequest(req, c.transport, c.serializer)
	if err != nil {
		return "", err
	}
	return resp.Result.AsString()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the resource package in interface.go)
// --------------------------------------------------------------------------

func (c *reservationClient) AddFlight(flightNum, seats, price int64) (bool, error) {
	return c.callBool(common.CmdAddFlight,
		common.IntValue(flightNum), common.IntValue(seats), common.IntValue(price))
}

func (c *reservationClient) DeleteFlight(flightNum int64) (bool, error) {
	return c.callBool(common.CmdDeleteFlight, common.IntValue(flightNum))
}

func (c *reservationClient) QueryFlight(flightNum int64) (int64, error) {
	return c.callInt(common.CmdQueryFlight, common.IntValue(flightNum))
}

func (c *reservationClient) QueryFlightPrice(flightNum int64) (int64, error) {
	return c.callInt(common.CmdQueryFlightPrice, common.IntValue(flightNum))
}

func (c *reservationClient) ReserveFlight(customerID, flightNum int64) (bool, error) {
	return c.callBool(common.CmdReserveFlight,
		common.IntValue(customerID), common.IntValue(flightNum))
}

func (c *reservationClient) AddCars(location string, count, price int64) (bool, error) {
	return c.callBool(common.CmdAddCars,
		common.StringValue(location), common.IntValue(count), common.IntValue(price))
}

func (c *reservationClient) DeleteCars(location string) (bool, error) {
	return c.callBool(common.CmdDeleteCars, common.StringValue(location))
}

func (c *reservationClient) QueryCars(location string) (int64, error) {
	return c.callInt(common.CmdQueryCars, common.StringValue(location))
}

func (c *reservationClient) QueryCarsPrice(location string) (int64, error) {
	return c.callInt(common.CmdQueryCarsPrice, common.StringValue(location))
}

func (c *reservationClient) ReserveCar(customerID int64, location string) (bool, error) {
	return c.callBool(common.CmdReserveCar,
		common.IntValue(customerID), common.StringValue(location))
}

func (c *reservationClient) AddRooms(location string, count, price int64) (bool, error) {
	return c.callBool(common.CmdAddRooms,
		common.StringValue(location), common.IntValue(count), common.IntValue(price))
}

func (c *reservationClient) DeleteRooms(location string) (bool, error) {
	return c.callBool(common.CmdDeleteRooms, common.StringValue(location))
}

func (c *reservationClient) QueryRooms(location string) (int64, error) {
	return c.callInt(common.CmdQueryRooms, common.StringValue(location))
}

func (c *reservationClient) QueryRoomsPrice(location string) (int64, error) {
	return c.callInt(common.CmdQueryRoomsPrice, common.StringValue(location))
}

func (c *reservationClient) ReserveRoom(customerID int64, location string) (bool, error) {
	return c.callBool(common.CmdReserveRoom,
		common.IntValue(customerID), common.StringValue(location))
}

func (c *reservationClient) NewCustomer() (int64, error) {
	return c.callInt(common.CmdNewCustomer)
}

func (c *reservationClient) NewCustomerID(customerID int64) (bool, error) {
	return c.callBool(common.CmdNewCustomerID, common.IntValue(customerID))
}

func (c *reservationClient) DeleteCustomer(customerID int64) (bool, error) {
	return c.callBool(common.CmdDeleteCustomer, common.IntValue(customerID))
}

func (c *reservationClient) QueryCustomer(customerID int64) (string, error) {
	return c.callString(common.CmdQueryCustomer, common.IntValue(customerID))
}

func (c *reservationClient) Bundle(customerID int64, flightNums []string, location string, reserveCar, reserveRoom bool) (bool, error) {
	return c.callBool(common.CmdBundle,
		common.IntValue(customerID),
		common.ListValue(flightNums),
		common.StringValue(location),
		common.BoolValue(reserveCar),
		common.BoolValue(reserveRoom))
}

func (c *reservationClient) Close() error {
	return c.transport.Close()
}
