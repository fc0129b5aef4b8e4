package res

import (
	"github.com/spf13/cobra"

	"github.com/ValentinKolb/tRS/cmd/util"
	"github.com/ValentinKolb/tRS/rpc/client"
)

var (
	rpcClient client.IReservationClient

	// ReservationCommands represents the res command group
	ReservationCommands = &cobra.Command{
		Use:               "res",
		Short:             "Perform reservation operations against the middleware",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the res command
	util.SetupRPCClientFlags(ReservationCommands)

	// Add subcommands
	ReservationCommands.AddCommand(addFlightCmd)
	ReservationCommands.AddCommand(deleteFlightCmd)
	ReservationCommands.AddCommand(queryFlightCmd)
	ReservationCommands.AddCommand(queryFlightPriceCmd)
	ReservationCommands.AddCommand(reserveFlightCmd)
	ReservationCommands.AddCommand(addCarsCmd)
	ReservationCommands.AddCommand(deleteCarsCmd)
	ReservationCommands.AddCommand(queryCarsCmd)
	ReservationCommands.AddCommand(queryCarsPriceCmd)
	ReservationCommands.AddCommand(reserveCarCmd)
	ReservationCommands.AddCommand(addRoomsCmd)
	ReservationCommands.AddCommand(deleteRoomsCmd)
	ReservationCommands.AddCommand(queryRoomsCmd)
	ReservationCommands.AddCommand(queryRoomsPriceCmd)
	ReservationCommands.AddCommand(reserveRoomCmd)
	ReservationCommands.AddCommand(newCustomerCmd)
	ReservationCommands.AddCommand(newCustomerIDCmd)
	ReservationCommands.AddCommand(deleteCustomerCmd)
	ReservationCommands.AddCommand(queryCustomerCmd)
	ReservationCommands.AddCommand(bundleCmd)
}

// setupClient initializes the RPC reservation client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the reservation client
	rpcClient, err = client.NewReservationClient(*config, t, s)
	return err
}
