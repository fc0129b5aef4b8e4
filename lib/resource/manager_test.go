package resource

import (
	"fmt"
	"sync"
	"testing"
)

func TestAddAndQueryFlight(t *testing.T) {
	rm := NewResourceManager()

	ok, err := rm.AddFlight(100, 50, 299)
	if err != nil || !ok {
		t.Fatalf("AddFlight failed: ok=%v err=%v", ok, err)
	}

	if n, _ := rm.QueryFlight(100); n != 50 {
		t.Errorf("QueryFlight = %d, want 50", n)
	}
	if p, _ := rm.QueryFlightPrice(100); p != 299 {
		t.Errorf("QueryFlightPrice = %d, want 299", p)
	}

	// Adding again tops up the seats and overwrites the price
	if ok, _ := rm.AddFlight(100, 25, 350); !ok {
		t.Fatal("second AddFlight failed")
	}
	if n, _ := rm.QueryFlight(100); n != 75 {
		t.Errorf("QueryFlight after top-up = %d, want 75", n)
	}
	if p, _ := rm.QueryFlightPrice(100); p != 350 {
		t.Errorf("QueryFlightPrice after top-up = %d, want 350", p)
	}

	// A non-positive price keeps the old price
	if ok, _ := rm.AddFlight(100, 5, 0); !ok {
		t.Fatal("third AddFlight failed")
	}
	if p, _ := rm.QueryFlightPrice(100); p != 350 {
		t.Errorf("QueryFlightPrice after zero-price add = %d, want 350", p)
	}
}

func TestQueryMissingResources(t *testing.T) {
	rm := NewResourceManager()

	if n, _ := rm.QueryFlight(404); n != 0 {
		t.Errorf("QueryFlight for missing flight = %d, want 0", n)
	}
	if p, _ := rm.QueryCarsPrice("nowhere"); p != 0 {
		t.Errorf("QueryCarsPrice for missing location = %d, want 0", p)
	}
	if n, _ := rm.QueryRooms("nowhere"); n != 0 {
		t.Errorf("QueryRooms for missing location = %d, want 0", n)
	}
}

func TestDeleteFlight(t *testing.T) {
	rm := NewResourceManager()

	// Deleting a missing flight is rejected
	if ok, _ := rm.DeleteFlight(1); ok {
		t.Error("DeleteFlight succeeded for missing flight")
	}

	rm.AddFlight(1, 10, 100)
	if ok, _ := rm.DeleteFlight(1); !ok {
		t.Error("DeleteFlight failed for existing flight")
	}
	if n, _ := rm.QueryFlight(1); n != 0 {
		t.Errorf("QueryFlight after delete = %d, want 0", n)
	}

	// A flight with reservations cannot be deleted
	rm.AddFlight(2, 10, 100)
	id, _ := rm.NewCustomer()
	if ok, _ := rm.ReserveFlight(id, 2); !ok {
		t.Fatal("ReserveFlight failed")
	}
	if ok, _ := rm.DeleteFlight(2); ok {
		t.Error("DeleteFlight succeeded despite reservation")
	}

	// Releasing the reservation makes it deletable again
	rm.DeleteCustomer(id)
	if ok, _ := rm.DeleteFlight(2); !ok {
		t.Error("DeleteFlight failed after customer was deleted")
	}
}

func TestReserve(t *testing.T) {
	rm := NewResourceManager()
	rm.AddCars("montreal", 2, 30)

	// Reservation without a customer is rejected
	if ok, _ := rm.ReserveCar(999, "montreal"); ok {
		t.Error("ReserveCar succeeded for missing customer")
	}

	id, _ := rm.NewCustomer()

	// Two cars available, two reservations succeed, the third is rejected
	for i := 0; i < 2; i++ {
		if ok, _ := rm.ReserveCar(id, "montreal"); !ok {
			t.Fatalf("ReserveCar %d failed", i)
		}
	}
	if ok, _ := rm.ReserveCar(id, "montreal"); ok {
		t.Error("ReserveCar succeeded with no cars left")
	}
	if n, _ := rm.QueryCars("montreal"); n != 0 {
		t.Errorf("QueryCars = %d, want 0", n)
	}

	// Reserving at an unknown location is rejected
	if ok, _ := rm.ReserveCar(id, "nowhere"); ok {
		t.Error("ReserveCar succeeded for missing location")
	}
}

func TestCustomerLifecycle(t *testing.T) {
	rm := NewResourceManager()

	if ok, _ := rm.NewCustomerID(42); !ok {
		t.Fatal("NewCustomerID failed")
	}
	// Duplicate ids are rejected
	if ok, _ := rm.NewCustomerID(42); ok {
		t.Error("NewCustomerID succeeded for duplicate id")
	}

	// Deleting a missing customer is rejected
	if ok, _ := rm.DeleteCustomer(999); ok {
		t.Error("DeleteCustomer succeeded for missing customer")
	}

	// Deleting a customer releases the reserved items
	rm.AddRooms("berlin", 1, 80)
	if ok, _ := rm.ReserveRoom(42, "berlin"); !ok {
		t.Fatal("ReserveRoom failed")
	}
	if n, _ := rm.QueryRooms("berlin"); n != 0 {
		t.Fatalf("QueryRooms = %d, want 0", n)
	}
	if ok, _ := rm.DeleteCustomer(42); !ok {
		t.Fatal("DeleteCustomer failed")
	}
	if n, _ := rm.QueryRooms("berlin"); n != 1 {
		t.Errorf("QueryRooms after customer delete = %d, want 1", n)
	}
}

func TestQueryCustomerBill(t *testing.T) {
	rm := NewResourceManager()

	// Missing customer yields an empty bill
	if bill, _ := rm.QueryCustomer(999); bill != "" {
		t.Errorf("QueryCustomer for missing customer = %q, want empty", bill)
	}

	rm.NewCustomerID(7)

	// Fresh customer has a header-only bill
	if bill, _ := rm.QueryCustomer(7); bill != "Bill for customer 7\n" {
		t.Errorf("empty bill = %q", bill)
	}

	rm.AddFlight(100, 10, 250)
	rm.AddCars("montreal", 10, 30)
	rm.ReserveFlight(7, 100)
	rm.ReserveFlight(7, 100)
	rm.ReserveCar(7, "montreal")

	want := "Bill for customer 7\n" +
		"1 car-montreal $30\n" +
		"2 flight-100 $250\n"
	if bill, _ := rm.QueryCustomer(7); bill != want {
		t.Errorf("bill = %q, want %q", bill, want)
	}
}

func TestNewCustomerIDsUnique(t *testing.T) {
	rm := NewResourceManager()

	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id, err := rm.NewCustomer()
		if err != nil {
			t.Fatalf("NewCustomer failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate customer id %d", id)
		}
		seen[id] = true
	}
}

// TestConcurrentReserve checks that concurrent reservations never exceed the
// available capacity
func TestConcurrentReserve(t *testing.T) {
	rm := NewResourceManager()

	const capacity = 50
	const attempts = 200
	rm.AddFlight(1, capacity, 100)

	ids := make([]int64, attempts)
	for i := range ids {
		ids[i], _ = rm.NewCustomer()
	}

	var wg sync.WaitGroup
	results := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = rm.ReserveFlight(ids[i], 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, ok := range results {
		if ok {
			succeeded++
		}
	}
	if succeeded != capacity {
		t.Errorf("%d reservations succeeded, want %d", succeeded, capacity)
	}
	if n, _ := rm.QueryFlight(1); n != 0 {
		t.Errorf("QueryFlight = %d, want 0", n)
	}
}

// TestBillKeyFormat ensures item keys keep their documented shape since they
// are visible on customer bills
func TestBillKeyFormat(t *testing.T) {
	rm := NewResourceManager()
	rm.NewCustomerID(1)
	rm.AddRooms("nyc", 1, 120)
	rm.ReserveRoom(1, "nyc")

	want := fmt.Sprintf("Bill for customer %d\n%d %s $%d\n", 1, 1, "room-nyc", 120)
	if bill, _ := rm.QueryCustomer(1); bill != want {
		t.Errorf("bill = %q, want %q", bill, want)
	}
}
