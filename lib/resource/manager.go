package resource

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// reservableItem is one pool of identical resources (all seats of a flight,
// all cars at a location). count is the number still available, reserved the
// number currently held by customers.
type reservableItem struct {
	key      string
	count    int64
	price    int64
	reserved int64
}

// reservedItem records one customer's hold on an item pool
type reservedItem struct {
	key   string
	count int64
	price int64
}

// customer holds the reservations of one customer. The mutex guards the
// reservations map and the deleted flag; item pools are never mutated under
// it, so no lock ordering between customers and items exists.
type customer struct {
	id           int64
	mu           sync.Mutex
	deleted      bool
	reservations map[string]*reservedItem
}

// managerImpl implements IResourceManager on two concurrent maps. All item
// pool mutations go through Compute so count/reserved updates are atomic per
// key.
type managerImpl struct {
	items     *xsync.MapOf[string, reservableItem]
	customers *xsync.MapOf[int64, *customer]
	ids       *CustomerIDSource
}

// item keys as they appear on customer bills
func flightKey(flightNum int64) string { return fmt.Sprintf("flight-%d", flightNum) }
func carKey(location string) string    { return "car-" + location }
func roomKey(location string) string   { return "room-" + location }

// --------------------------------------------------------------------------
// Customer ID Generation
// --------------------------------------------------------------------------

// CustomerIDSource hands out unique customer ids. The counter is seeded from
// the wall clock plus a random offset so ids from independent restarts are
// unlikely to collide, and incremented atomically so ids from one process
// never do.
type CustomerIDSource struct {
	next atomic.Int64
}

// NewCustomerIDSource creates a seeded id source
func NewCustomerIDSource() *CustomerIDSource {
	s := &CustomerIDSource{}
	s.next.Store(time.Now().UnixMilli()*1000 + rand.Int63n(1000))
	return s
}

// Next returns the next customer id
func (s *CustomerIDSource) Next() int64 {
	return s.next.Add(1)
}

// --------------------------------------------------------------------------
// Factory Method
// --------------------------------------------------------------------------

// NewResourceManager creates an empty in-memory resource manager
func NewResourceManager() IResourceManager {
	return &managerImpl{
		items:     xsync.NewMapOf[string, reservableItem](),
		customers: xsync.NewMapOf[int64, *customer](),
		ids:       NewCustomerIDSource(),
	}
}

// --------------------------------------------------------------------------
// Generic item operations
// --------------------------------------------------------------------------

// addItem creates an item pool or tops up an existing one. A positive price
// overwrites the stored price, otherwise the old price is kept.
func (m *managerImpl) addItem(key string, count, price int64) (bool, error) {
	m.items.Compute(key, func(old reservableItem, loaded bool) (reservableItem, bool) {
		if !loaded {
			return reservableItem{key: key, count: count, price: price}, false
		}
		old.count += count
		if price > 0 {
			old.price = price
		}
		return old, false
	})
	return true, nil
}

// deleteItem removes an item pool unless customers still hold reservations
func (m *managerImpl) deleteItem(key string) (bool, error) {
	deleted := false
	m.items.Compute(key, func(old reservableItem, loaded bool) (reservableItem, bool) {
		if !loaded {
			return old, true
		}
		if old.reserved > 0 {
			return old, false
		}
		deleted = true
		return old, true
	})
	return deleted, nil
}

// queryItemCount returns the available count, zero for an unknown key
func (m *managerImpl) queryItemCount(key string) (int64, error) {
	if item, ok := m.items.Load(key); ok {
		return item.count, nil
	}
	return 0, nil
}

// queryItemPrice returns the price, zero for an unknown key
func (m *managerImpl) queryItemPrice(key string) (int64, error) {
	if item, ok := m.items.Load(key); ok {
		return item.price, nil
	}
	return 0, nil
}

// reserveItem reserves one unit of an item pool for a customer. The customer
// is looked up first, then the pool is decremented atomically, then the
// reservation is recorded on the customer. If the customer was deleted in
// between, the unit is returned to the pool.
func (m *managerImpl) reserveItem(customerID int64, key string) (bool, error) {
	cust, ok := m.customers.Load(customerID)
	if !ok {
		return false, nil
	}

	var price int64
	reserved := false
	m.items.Compute(key, func(old reservableItem, loaded bool) (reservableItem, bool) {
		if !loaded {
			return old, true
		}
		if old.count <= 0 {
			return old, false
		}
		old.count--
		old.reserved++
		price = old.price
		reserved = true
		return old, false
	})
	if !reserved {
		return false, nil
	}

	cust.mu.Lock()
	if cust.deleted {
		cust.mu.Unlock()
		// Customer vanished between the lookup and the pool decrement,
		// hand the unit back
		m.releaseItem(key, 1)
		return false, nil
	}
	if res, ok := cust.reservations[key]; ok {
		res.count++
		res.price = price
	} else {
		cust.reservations[key] = &reservedItem{key: key, count: 1, price: price}
	}
	cust.mu.Unlock()

	return true, nil
}

// releaseItem returns units of an item pool to the available count
func (m *managerImpl) releaseItem(key string, count int64) {
	m.items.Compute(key, func(old reservableItem, loaded bool) (reservableItem, bool) {
		if !loaded {
			return old, true
		}
		old.count += count
		old.reserved -= count
		return old, false
	})
}

// --------------------------------------------------------------------------
// Interface Methods - Flights (docu see interface.go)
// --------------------------------------------------------------------------

func (m *managerImpl) AddFlight(flightNum, seats, price int64) (bool, error) {
	return m.addItem(flightKey(flightNum), seats, price)
}

func (m *managerImpl) DeleteFlight(flightNum int64) (bool, error) {
	return m.deleteItem(flightKey(flightNum))
}

func (m *managerImpl) QueryFlight(flightNum int64) (int64, error) {
	return m.queryItemCount(flightKey(flightNum))
}

func (m *managerImpl) QueryFlightPrice(flightNum int64) (int64, error) {
	return m.queryItemPrice(flightKey(flightNum))
}

func (m *managerImpl) ReserveFlight(customerID, flightNum int64) (bool, error) {
	return m.reserveItem(customerID, flightKey(flightNum))
}

// --------------------------------------------------------------------------
// Interface Methods - Cars (docu see interface.go)
// --------------------------------------------------------------------------

func (m *managerImpl) AddCars(location string, count, price int64) (bool, error) {
	return m.addItem(carKey(location), count, price)
}

func (m *managerImpl) DeleteCars(location string) (bool, error) {
	return m.deleteItem(carKey(location))
}

func (m *managerImpl) QueryCars(location string) (int64, error) {
	return m.queryItemCount(carKey(location))
}

func (m *managerImpl) QueryCarsPrice(location string) (int64, error) {
	return m.queryItemPrice(carKey(location))
}

func (m *managerImpl) ReserveCar(customerID int64, location string) (bool, error) {
	return m.reserveItem(customerID, carKey(location))
}

// --------------------------------------------------------------------------
// Interface Methods - Rooms (docu see interface.go)
// --------------------------------------------------------------------------

func (m *managerImpl) AddRooms(location string, count, price int64) (bool, error) {
	return m.addItem(roomKey(location), count, price)
}

func (m *managerImpl) DeleteRooms(location string) (bool, error) {
	return m.deleteItem(roomKey(location))
}

func (m *managerImpl) QueryRooms(location string) (int64, error) {
	return m.queryItemCount(roomKey(location))
}

func (m *managerImpl) QueryRoomsPrice(location string) (int64, error) {
	return m.queryItemPrice(roomKey(location))
}

func (m *managerImpl) ReserveRoom(customerID int64, location string) (bool, error) {
	return m.reserveItem(customerID, roomKey(location))
}

// --------------------------------------------------------------------------
// Interface Methods - Customers (docu see interface.go)
// --------------------------------------------------------------------------

func (m *managerImpl) NewCustomer() (int64, error) {
	id := m.ids.Next()
	m.customers.Store(id, &customer{
		id:           id,
		reservations: make(map[string]*reservedItem),
	})
	return id, nil
}

func (m *managerImpl) NewCustomerID(customerID int64) (bool, error) {
	_, loaded := m.customers.LoadOrStore(customerID, &customer{
		id:           customerID,
		reservations: make(map[string]*reservedItem),
	})
	return !loaded, nil
}

func (m *managerImpl) DeleteCustomer(customerID int64) (bool, error) {
	cust, ok := m.customers.LoadAndDelete(customerID)
	if !ok {
		return false, nil
	}

	// Mark deleted under the lock so a concurrent reserve either sees the
	// flag or its reservation is released below
	cust.mu.Lock()
	cust.deleted = true
	reservations := cust.reservations
	cust.reservations = nil
	cust.mu.Unlock()

	for key, res := range reservations {
		m.releaseItem(key, res.count)
	}
	return true, nil
}

func (m *managerImpl) QueryCustomer(customerID int64) (string, error) {
	cust, ok := m.customers.Load(customerID)
	if !ok {
		return "", nil
	}

	cust.mu.Lock()
	lines := make([]string, 0, len(cust.reservations))
	for _, res := range cust.reservations {
		lines = append(lines, fmt.Sprintf("%d %s $%d\n", res.count, res.key, res.price))
	}
	cust.mu.Unlock()

	// Sorted for a stable bill
	sort.Strings(lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Bill for customer %d\n", customerID)
	for _, line := range lines {
		sb.WriteString(line)
	}
	return sb.String(), nil
}
