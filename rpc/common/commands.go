package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Command Definition
// --------------------------------------------------------------------------

// Command identifies one operation of the reservation system. The set is
// closed: every command belongs to exactly one routing class (see Class).
type Command uint8

const (
	CmdUnknown Command = iota

	// Flight operations

	CmdAddFlight
	CmdDeleteFlight
	CmdQueryFlight
	CmdQueryFlightPrice
	CmdReserveFlight

	// Car operations

	CmdAddCars
	CmdDeleteCars
	CmdQueryCars
	CmdQueryCarsPrice
	CmdReserveCar

	// Room operations

	CmdAddRooms
	CmdDeleteRooms
	CmdQueryRooms
	CmdQueryRoomsPrice
	CmdReserveRoom

	// Cross-backend operations (handled by the middleware coordinator)

	CmdNewCustomer
	CmdNewCustomerID
	CmdDeleteCustomer
	CmdQueryCustomer
	CmdBundle
)

// Commands lists every defined command. Used by routing tests and by the
// CLI to enumerate the command surface.
var Commands = []Command{
	CmdAddFlight, CmdDeleteFlight, CmdQueryFlight, CmdQueryFlightPrice, CmdReserveFlight,
	CmdAddCars, CmdDeleteCars, CmdQueryCars, CmdQueryCarsPrice, CmdReserveCar,
	CmdAddRooms, CmdDeleteRooms, CmdQueryRooms, CmdQueryRoomsPrice, CmdReserveRoom,
	CmdNewCustomer, CmdNewCustomerID, CmdDeleteCustomer, CmdQueryCustomer, CmdBundle,
}

// --------------------------------------------------------------------------
// Routing Classification
// --------------------------------------------------------------------------

// CommandClass partitions the command set for routing: single-backend
// commands are forwarded as-is to the matching resource manager, cross
// commands are handled by the coordinator.
type CommandClass uint8

const (
	ClassUnknown CommandClass = iota
	ClassFlight
	ClassCar
	ClassRoom
	ClassCross
)

// String returns the string representation of a CommandClass.
func (c CommandClass) String() string {
	switch c {
	case ClassFlight:
		return "flight"
	case ClassCar:
		return "car"
	case ClassRoom:
		return "room"
	case ClassCross:
		return "cross"
	default:
		return "unknown"
	}
}

// Class returns the routing class of a command. The mapping is total over
// the defined command set and disjoint by construction.
func (c Command) Class() CommandClass {
	switch c {
	case CmdAddFlight, CmdDeleteFlight, CmdQueryFlight, CmdQueryFlightPrice, CmdReserveFlight:
		return ClassFlight
	case CmdAddCars, CmdDeleteCars, CmdQueryCars, CmdQueryCarsPrice, CmdReserveCar:
		return ClassCar
	case CmdAddRooms, CmdDeleteRooms, CmdQueryRooms, CmdQueryRoomsPrice, CmdReserveRoom:
		return ClassRoom
	case CmdNewCustomer, CmdNewCustomerID, CmdDeleteCustomer, CmdQueryCustomer, CmdBundle:
		return ClassCross
	default:
		return ClassUnknown
	}
}

// --------------------------------------------------------------------------
// String Conversion
// --------------------------------------------------------------------------

var commandNames = map[Command]string{
	CmdAddFlight:        "AddFlight",
	CmdDeleteFlight:     "DeleteFlight",
	CmdQueryFlight:      "QueryFlight",
	CmdQueryFlightPrice: "QueryFlightPrice",
	CmdReserveFlight:    "ReserveFlight",
	CmdAddCars:          "AddCars",
	CmdDeleteCars:       "DeleteCars",
	CmdQueryCars:        "QueryCars",
	CmdQueryCarsPrice:   "QueryCarsPrice",
	CmdReserveCar:       "ReserveCar",
	CmdAddRooms:         "AddRooms",
	CmdDeleteRooms:      "DeleteRooms",
	CmdQueryRooms:       "QueryRooms",
	CmdQueryRoomsPrice:  "QueryRoomsPrice",
	CmdReserveRoom:      "ReserveRoom",
	CmdNewCustomer:      "NewCustomer",
	CmdNewCustomerID:    "NewCustomerID",
	CmdDeleteCustomer:   "DeleteCustomer",
	CmdQueryCustomer:    "QueryCustomer",
	CmdBundle:           "Bundle",
}

var commandValues = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for cmd, name := range commandNames {
		m[name] = cmd
	}
	return m
}()

// String returns the wire name of a command.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseCommand converts a wire name back to a Command.
func ParseCommand(s string) (Command, error) {
	if cmd, ok := commandValues[s]; ok {
		return cmd, nil
	}
	return CmdUnknown, fmt.Errorf("unknown command: %s", s)
}

// MarshalJSON implements the json.Marshaller interface for Command.
// This allows Command to be serialized as a string in JSON.
func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Command.
// This allows Command to be deserialized from a string in JSON.
func (c *Command) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	cmd, err := ParseCommand(s)
	if err != nil {
		return err
	}
	*c = cmd
	return nil
}
