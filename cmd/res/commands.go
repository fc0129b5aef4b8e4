package res

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// parseID parses a decimal int64 command line argument
func parseID(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, err)
	}
	return v, nil
}

var (
	addFlightCmd = &cobra.Command{
		Use:   "add-flight [flightNum] [seats] [price]",
		Short: "Adds a flight or tops up its seats",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			flightNum, err := parseID("flightNum", args[0])
			if err != nil {
				return err
			}
			seats, err := parseID("seats", args[1])
			if err != nil {
				return err
			}
			price, err := parseID("price", args[2])
			if err != nil {
				return err
			}
			ok, err := rpcClient.AddFlight(flightNum, seats, price)
			if err != nil {
				return err
			}
			fmt.Printf("added=%t\n", ok)
			return nil
		},
	}
	deleteFlightCmd = &cobra.Command{
		Use:   "delete-flight [flightNum]",
		Short: "Deletes a flight if it has no reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flightNum, err := parseID("flightNum", args[0])
			if err != nil {
				return err
			}
			ok, err := rpcClient.DeleteFlight(flightNum)
			if err != nil {
				return err
			}
			fmt.Printf("deleted=%t\n", ok)
			return nil
		},
	}
	queryFlightCmd = &cobra.Command{
		Use:   "query-flight [flightNum]",
		Short: "Queries the available seats on a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flightNum, err := parseID("flightNum", args[0])
			if err != nil {
				return err
			}
			n, err := rpcClient.QueryFlight(flightNum)
			if err != nil {
				return err
			}
			fmt.Printf("seats=%d\n", n)
			return nil
		},
	}
	queryFlightPriceCmd = &cobra.Command{
		Use:   "query-flight-price [flightNum]",
		Short: "Queries the seat price of a flight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flightNum, err := parseID("flightNum", args[0])
			if err != nil {
				return err
			}
			price, err := rpcClient.QueryFlightPrice(flightNum)
			if err != nil {
				return err
			}
			fmt.Printf("price=%d\n", price)
			return nil
		},
	}
	reserveFlightCmd = &cobra.Command{
		Use:   "reserve-flight [customerID] [flightNum]",
		Short: "Reserves one seat on a flight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			flightNum, err := parseID("flightNum", args[1])
			if err != nil {
				return err
			}
			ok, err := rpcClient.ReserveFlight(customerID, flightNum)
			if err != nil {
				return err
			}
			fmt.Printf("reserved=%t\n", ok)
			return nil
		},
	}

	addCarsCmd = &cobra.Command{
		Use:   "add-cars [location] [count] [price]",
		Short: "Adds cars at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseID("count", args[1])
			if err != nil {
				return err
			}
			price, err := parseID("price", args[2])
			if err != nil {
				return err
			}
			ok, err := rpcClient.AddCars(args[0], count, price)
			if err != nil {
				return err
			}
			fmt.Printf("added=%t\n", ok)
			return nil
		},
	}
	deleteCarsCmd = &cobra.Command{
		Use:   "delete-cars [location]",
		Short: "Deletes a car location if it has no reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcClient.DeleteCars(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("deleted=%t\n", ok)
			return nil
		},
	}
	queryCarsCmd = &cobra.Command{
		Use:   "query-cars [location]",
		Short: "Queries the available cars at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rpcClient.QueryCars(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("cars=%d\n", n)
			return nil
		},
	}
	queryCarsPriceCmd = &cobra.Command{
		Use:   "query-cars-price [location]",
		Short: "Queries the car price at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := rpcClient.QueryCarsPrice(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("price=%d\n", price)
			return nil
		},
	}
	reserveCarCmd = &cobra.Command{
		Use:   "reserve-car [customerID] [location]",
		Short: "Reserves one car at a location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			ok, err := rpcClient.ReserveCar(customerID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("reserved=%t\n", ok)
			return nil
		},
	}

	addRoomsCmd = &cobra.Command{
		Use:   "add-rooms [location] [count] [price]",
		Short: "Adds rooms at a location",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseID("count", args[1])
			if err != nil {
				return err
			}
			price, err := parseID("price", args[2])
			if err != nil {
				return err
			}
			ok, err := rpcClient.AddRooms(args[0], count, price)
			if err != nil {
				return err
			}
			fmt.Printf("added=%t\n", ok)
			return nil
		},
	}
	deleteRoomsCmd = &cobra.Command{
		Use:   "delete-rooms [location]",
		Short: "Deletes a room location if it has no reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rpcClient.DeleteRooms(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("deleted=%t\n", ok)
			return nil
		},
	}
	queryRoomsCmd = &cobra.Command{
		Use:   "query-rooms [location]",
		Short: "Queries the available rooms at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := rpcClient.QueryRooms(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("rooms=%d\n", n)
			return nil
		},
	}
	queryRoomsPriceCmd = &cobra.Command{
		Use:   "query-rooms-price [location]",
		Short: "Queries the room price at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := rpcClient.QueryRoomsPrice(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("price=%d\n", price)
			return nil
		},
	}
	reserveRoomCmd = &cobra.Command{
		Use:   "reserve-room [customerID] [location]",
		Short: "Reserves one room at a location",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			ok, err := rpcClient.ReserveRoom(customerID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("reserved=%t\n", ok)
			return nil
		},
	}

	newCustomerCmd = &cobra.Command{
		Use:   "new-customer",
		Short: "Creates a customer with a generated id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := rpcClient.NewCustomer()
			if err != nil {
				return err
			}
			fmt.Printf("customerID=%d\n", id)
			return nil
		},
	}
	newCustomerIDCmd = &cobra.Command{
		Use:   "new-customer-id [customerID]",
		Short: "Creates a customer with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			ok, err := rpcClient.NewCustomerID(customerID)
			if err != nil {
				return err
			}
			fmt.Printf("created=%t\n", ok)
			return nil
		},
	}
	deleteCustomerCmd = &cobra.Command{
		Use:   "delete-customer [customerID]",
		Short: "Deletes a customer and releases all reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			ok, err := rpcClient.DeleteCustomer(customerID)
			if err != nil {
				return err
			}
			fmt.Printf("deleted=%t\n", ok)
			return nil
		},
	}
	queryCustomerCmd = &cobra.Command{
		Use:   "query-customer [customerID]",
		Short: "Prints the bill of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			bill, err := rpcClient.QueryCustomer(customerID)
			if err != nil {
				return err
			}
			fmt.Print(bill)
			return nil
		},
	}

	bundleCmd = &cobra.Command{
		Use:   "bundle [customerID] [flightNums] [location] [car] [room]",
		Short: "Reserves a bundle of flights plus optionally a car and a room",
		Long:  `Reserves a bundle of flights plus optionally a car and a room at a location. The flight numbers are a comma-separated list; repeating a number reserves multiple seats on that flight (e.g. "100,100,200").`,
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			customerID, err := parseID("customerID", args[0])
			if err != nil {
				return err
			}
			flightNums := strings.Split(args[1], ",")
			car, err := strconv.ParseBool(args[3])
			if err != nil {
				return fmt.Errorf("car must be a bool: %w", err)
			}
			room, err := strconv.ParseBool(args[4])
			if err != nil {
				return fmt.Errorf("room must be a bool: %w", err)
			}
			ok, err := rpcClient.Bundle(customerID, flightNums, args[2], car, room)
			if err != nil {
				return err
			}
			fmt.Printf("reserved=%t\n", ok)
			return nil
		},
	}
)
