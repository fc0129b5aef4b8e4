package serve

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "github.com/ValentinKolb/tRS/cmd/util"
	"github.com/ValentinKolb/tRS/rpc/common"
	"github.com/ValentinKolb/tRS/rpc/middleware"
	"github.com/ValentinKolb/tRS/rpc/server"
	"github.com/ValentinKolb/tRS/rpc/transport"
	"github.com/ValentinKolb/tRS/rpc/transport/tcp"
	"github.com/ValentinKolb/tRS/rpc/transport/unix"
)

var (
	// ServeCmd represents the serve command group
	ServeCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start a reservation system server",
		Long:  `Start one of the reservation system servers. The configuration can be set via command line flags or environment variables. The format of the environment variables is TRS_<flag> (e.g. TRS_TIMEOUT=15)`,
	}

	rmCmd = &cobra.Command{
		Use:     "rm",
		Short:   "Start a backend resource manager server",
		Long:    `Start a backend resource manager server. The server is resource-type agnostic: the middleware decides which commands it routes where, so the same command serves as flight, car or room backend.`,
		PreRunE: bindFlags,
		RunE:    runResourceManager,
	}

	middlewareCmd = &cobra.Command{
		Use:     "middleware",
		Short:   "Start the middleware server",
		Long:    `Start the middleware server. It accepts client connections, routes commands to the three backend resource managers and coordinates the cross-backend operations.`,
		PreRunE: bindFlags,
		RunE:    runMiddleware,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// shared flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the server will listen (host:port for tcp, a socket path for unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Read/write timeout in seconds, 0 disables deadlines"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address for the Prometheus metrics endpoint (e.g. 127.0.0.1:9090), empty disables metrics"))

	key = "transport-write-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket write buffer (in KB)"))

	key = "transport-read-buffer"
	ServeCmd.PersistentFlags().Int(key, 512, cmdUtil.WrapString("The size of the socket read buffer (in KB)"))

	key = "transport-tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "transport-tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The linger time (in seconds, only for tcp)"))

	// resource manager flags
	key = "name"
	rmCmd.Flags().String(key, "rm", cmdUtil.WrapString("Name of this resource manager, used in logs (e.g. flights)"))

	// middleware flags
	key = "flight-endpoint"
	middlewareCmd.Flags().String(key, "localhost:8081", cmdUtil.WrapString("Address of the flight backend"))

	key = "car-endpoint"
	middlewareCmd.Flags().String(key, "localhost:8082", cmdUtil.WrapString("Address of the car backend"))

	key = "room-endpoint"
	middlewareCmd.Flags().String(key, "localhost:8083", cmdUtil.WrapString("Address of the room backend"))

	ServeCmd.AddCommand(rmCmd)
	ServeCmd.AddCommand(middlewareCmd)
}

// bindFlags binds the command's flags to viper
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// serverTransportConf reads the shared transport settings
func serverTransportConf() common.ServerTransportConf {
	return common.ServerTransportConf{
		Endpoint: viper.GetString("endpoint"),
		SocketConf: common.SocketConf{
			WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
		},
		TCPConf: common.TCPConf{
			TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
			TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
		},
	}
}

// runResourceManager starts a backend resource manager server
func runResourceManager(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "tcp":
		t = tcp.NewTCPServerTransport()
	case "unix":
		t = unix.NewUnixServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	config := common.ServerConfig{
		Name:            viper.GetString("name"),
		Transport:       serverTransportConf(),
		TimeoutSecond:   viper.GetInt64("timeout"),
		MetricsEndpoint: viper.GetString("metrics-endpoint"),
		LogLevel:        viper.GetString("log-level"),
	}

	serv := server.NewRPCServer(config, t, s)
	return serv.Serve()
}

// runMiddleware starts the middleware server
func runMiddleware(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	config := common.MiddlewareConfig{
		Transport: serverTransportConf(),
		Backends: common.BackendEndpoints{
			Flight: viper.GetString("flight-endpoint"),
			Car:    viper.GetString("car-endpoint"),
			Room:   viper.GetString("room-endpoint"),
		},
		TimeoutSecond:   viper.GetInt64("timeout"),
		MetricsEndpoint: viper.GetString("metrics-endpoint"),
		LogLevel:        viper.GetString("log-level"),
	}

	serv := middleware.NewMiddlewareServer(config, s)
	return serv.Serve()
}

// initConfig reads in env files and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("trs")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
