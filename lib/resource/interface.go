package resource

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IResourceManager is the generic interface for managing reservable travel
// resources (flights, cars, rooms) and the customers that reserve them.
//
// All methods follow the same convention: boolean return values report
// whether the operation was applied (false means the request was valid but
// rejected, e.g. deleting a flight that still has reservations), while a
// non-nil error reports an internal failure. Query methods return zero
// values for resources that do not exist.
type IResourceManager interface {
	// AddFlight creates a flight with the given number of seats and price.
	// If the flight already exists, the seats are added to the available
	// count and the price is overwritten if the given price is positive.
	AddFlight(flightNum, seats, price int64) (bool, error)
	// DeleteFlight removes a flight. The flight is only removed if no
	// customer holds a reservation on it.
	DeleteFlight(flightNum int64) (bool, error)
	// QueryFlight returns the number of available seats on a flight.
	QueryFlight(flightNum int64) (int64, error)
	// QueryFlightPrice returns the price of a seat on a flight.
	QueryFlightPrice(flightNum int64) (int64, error)
	// ReserveFlight reserves one seat on a flight for a customer.
	ReserveFlight(customerID, flightNum int64) (bool, error)

	// AddCars creates or extends a car location, analogous to AddFlight.
	AddCars(location string, count, price int64) (bool, error)
	// DeleteCars removes a car location if it has no reservations.
	DeleteCars(location string) (bool, error)
	// QueryCars returns the number of available cars at a location.
	QueryCars(location string) (int64, error)
	// QueryCarsPrice returns the price of a car at a location.
	QueryCarsPrice(location string) (int64, error)
	// ReserveCar reserves one car at a location for a customer.
	ReserveCar(customerID int64, location string) (bool, error)

	// AddRooms creates or extends a room location, analogous to AddFlight.
	AddRooms(location string, count, price int64) (bool, error)
	// DeleteRooms removes a room location if it has no reservations.
	DeleteRooms(location string) (bool, error)
	// QueryRooms returns the number of available rooms at a location.
	QueryRooms(location string) (int64, error)
	// QueryRoomsPrice returns the price of a room at a location.
	QueryRoomsPrice(location string) (int64, error)
	// ReserveRoom reserves one room at a location for a customer.
	ReserveRoom(customerID int64, location string) (bool, error)

	// NewCustomer creates a customer with a freshly generated id and
	// returns the id.
	NewCustomer() (int64, error)
	// NewCustomerID creates a customer with the given id. Returns false if
	// a customer with that id already exists.
	NewCustomerID(customerID int64) (bool, error)
	// DeleteCustomer removes a customer and releases all reserved items
	// back to the available pool. Returns false if the customer does not
	// exist.
	DeleteCustomer(customerID int64) (bool, error)
	// QueryCustomer returns the bill of a customer, one line per reserved
	// item. Returns the empty string if the customer does not exist.
	QueryCustomer(customerID int64) (string, error)
}
