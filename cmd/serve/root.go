package serve

import (
	"context"
	cmdUtil "github.com/ValentinKolb/mllp/cmd/util"
	"github.com/ValentinKolb/mllp/lib/hl7"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the MLLP receiver",
		Long:    `Start the MLLP receiver with the specified configuration. Every received message is stored and acknowledged with AA. The configuration can be set via command line flags or environment variables. The format of the environment variables is MLLP_<flag> (e.g. MLLP_DATA_DIR=/var/lib/mllp)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:2022", cmdUtil.WrapString("The address on which the receiver will listen (e.g. 0.0.0.0:2022, /tmp/mllp.sock, ...)"))

	key = "sink"
	ServeCmd.PersistentFlags().String(key, string(common.SinkTypeFile), cmdUtil.WrapString("Where received messages are stored (file, memory)"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "received", cmdUtil.WrapString("The directory received messages are written to (file sink only)"))

	key = "prefix"
	ServeCmd.PersistentFlags().String(key, "MSG", cmdUtil.WrapString("The prefix of the stored message names"))

	key = "receiving-app"
	ServeCmd.PersistentFlags().String(key, "BILLING", cmdUtil.WrapString("The application name used in acknowledgments of messages with a header too short to read the receiver from"))

	key = "receiving-facility"
	ServeCmd.PersistentFlags().String(key, "HOSPITAL", cmdUtil.WrapString("The facility name used in acknowledgments of messages with a header too short to read the receiver from"))

	key = "ack-event"
	ServeCmd.PersistentFlags().String(key, "P03", cmdUtil.WrapString("The trigger event of acknowledgments (ACK^<event>)"))

	key = "ack-processing-id"
	ServeCmd.PersistentFlags().String(key, "P", cmdUtil.WrapString("The processing ID of acknowledgments"))

	key = "ack-version"
	ServeCmd.PersistentFlags().String(key, "2.5", cmdUtil.WrapString("The HL7 version of acknowledgments"))

	key = "ack-note"
	ServeCmd.PersistentFlags().String(key, "Message received successfully", cmdUtil.WrapString("The text of the MSA segment of acknowledgments"))

	key = "buffer-size"
	ServeCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("The read buffer of each session (in KB)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address on which Prometheus metrics are served on /metrics (e.g. localhost:9090, empty disables it)"))

	cmdUtil.SetupSocketFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	socket, tcpConf := cmdUtil.GetServerSocketConf()

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:   viper.GetString("endpoint"),
		SocketConf: socket,
		TCPConf:    tcpConf,
	}
	serveCmdConfig.Sink = common.SinkConfig{
		Type:    common.SinkType(viper.GetString("sink")),
		DataDir: viper.GetString("data-dir"),
		Prefix:  viper.GetString("prefix"),
	}
	serveCmdConfig.Ack = common.AckConfig{
		DefaultReceivingApp:      viper.GetString("receiving-app"),
		DefaultReceivingFacility: viper.GetString("receiving-facility"),
		EventCode:                viper.GetString("ack-event"),
		ProcessingID:             viper.GetString("ack-processing-id"),
		Version:                  viper.GetString("ack-version"),
		Note:                     viper.GetString("ack-note"),
	}
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	// fail before anything is started
	_, err := common.ParseLogLevel(serveCmdConfig.LogLevel)
	return err
}

// run starts the receiver and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	t, err := cmdUtil.GetServerTransport(viper.GetInt("buffer-size") * 1024)
	if err != nil {
		return err
	}

	sink, err := server.NewSink(serveCmdConfig.Sink)
	if err != nil {
		return err
	}

	serv := server.NewMLLPServer(
		*serveCmdConfig,
		t,
		sink,
		hl7.SystemClock{},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = serv.Close()
	}()

	return serv.Serve()
}
