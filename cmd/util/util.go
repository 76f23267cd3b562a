package util

import (
	"fmt"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/ValentinKolb/mllp/mllp/transport/tcp"
	"github.com/ValentinKolb/mllp/mllp/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
	"time"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (MLLP_<flag>)
	EnvPrefix = "mllp"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads env files and configures viper to read MLLP_* environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.Flags())
}

// --------------------------------------------------------------------------
// Socket flags (shared by server and client)
// --------------------------------------------------------------------------

// SetupSocketFlags adds the socket option flags to a command
func SetupSocketFlags(cmd *cobra.Command) {
	key := "write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket write buffer (in KB, 0 keeps the OS default)"))

	key = "read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket read buffer (in KB, 0 keeps the OS default)"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 30, WrapString("The keepalive interval (in seconds, 0 disables it, only for tcp)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The linger time (in seconds, negative keeps the OS default, only for tcp)"))
}

func getSocketConf() (common.SocketConf, common.TCPConf) {
	return common.SocketConf{
			WriteBufferSize: viper.GetInt("write-buffer") * 1024,
			ReadBufferSize:  viper.GetInt("read-buffer") * 1024,
		}, common.TCPConf{
			TCPNoDelay:      viper.GetBool("tcp-nodelay"),
			TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
			TCPLingerSec:    viper.GetInt("tcp-linger"),
		}
}

// --------------------------------------------------------------------------
// Client configuration
// --------------------------------------------------------------------------

// SetupClientFlags adds the sender connection flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "endpoint"
	cmd.PersistentFlags().String(key, "localhost:2022", WrapString("The address of the receiver (host:port for tcp, socket path for unix)"))

	key = "connect-timeout"
	cmd.PersistentFlags().Duration(key, 10*time.Second, WrapString("How long to wait for the connection to be established"))

	key = "timeout"
	cmd.PersistentFlags().Duration(key, 30*time.Second, WrapString("How long to wait for the complete acknowledgment of one message"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry a message after a connection error (timeouts are never retried)"))

	SetupSocketFlags(cmd)
}

// GetClientConfig reads the sender configuration from viper
func GetClientConfig() *common.ClientConfig {
	socket, tcpConf := getSocketConf()
	return &common.ClientConfig{
		ConnectTimeout:  viper.GetDuration("connect-timeout"),
		ResponseTimeout: viper.GetDuration("timeout"),
		LogLevel:        viper.GetString("log-level"),
		Transport: common.ClientTransportConfig{
			Endpoint:   viper.GetString("endpoint"),
			RetryCount: viper.GetInt("retries"),
			SocketConf: socket,
			TCPConf:    tcpConf,
		},
	}
}

// GetClientTransport creates the sender transport based on configuration
func GetClientTransport() (transport.IMLLPClientTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// --------------------------------------------------------------------------
// Server configuration
// --------------------------------------------------------------------------

// GetServerSocketConf reads the socket options of the receiver from viper
func GetServerSocketConf() (common.SocketConf, common.TCPConf) {
	return getSocketConf()
}

// GetServerTransport creates the receiver transport based on configuration
func GetServerTransport(bufferSize int) (transport.IMLLPServerTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		return tcp.NewTCPServerTransport(bufferSize), nil
	case "unix":
		return unix.NewUnixServerTransport(bufferSize), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}
