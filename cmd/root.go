package cmd

import (
	"fmt"
	"github.com/ValentinKolb/mllp/cmd/perf"
	"github.com/ValentinKolb/mllp/cmd/send"
	"github.com/ValentinKolb/mllp/cmd/serve"
	"github.com/ValentinKolb/mllp/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mllp",
		Short: "HL7v2 over MLLP receiver and sender",
		Long: fmt.Sprintf(`mllp (v%s)

A receiver and sender for HL7v2 messages framed with the Minimal Lower
Layer Protocol. The receiver stores every message and answers with an
accept acknowledgment, the sender transmits message files and prints
the acknowledgments.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mllp",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mllp v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(send.SendCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
