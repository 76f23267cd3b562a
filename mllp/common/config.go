package common

import (
	"fmt"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Socket configuration (shared by server and client)
// --------------------------------------------------------------------------

// SocketConf holds buffer sizes applied to every stream socket
type SocketConf struct {
	WriteBufferSize int // bytes, 0 keeps the OS default
	ReadBufferSize  int // bytes, 0 keeps the OS default
}

// TCPConf holds options that only apply to TCP sockets
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 disables keep-alive
	TCPLingerSec    int // negative keeps the OS default
}

// --------------------------------------------------------------------------
// Receiver configuration struct
// --------------------------------------------------------------------------

type SinkType string

const (
	SinkTypeFile   SinkType = "file"
	SinkTypeMemory SinkType = "memory"
)

// ServerTransportConfig configures the listening socket
type ServerTransportConfig struct {
	Endpoint string // host:port for tcp, socket path for unix
	SocketConf
	TCPConf
}

// SinkConfig selects where received payloads are stored
type SinkConfig struct {
	Type    SinkType
	DataDir string
	Prefix  string
}

// AckConfig holds the receiver identity and the static parts of acknowledgments
type AckConfig struct {
	DefaultReceivingApp      string // used when a header is too short to read it
	DefaultReceivingFacility string
	EventCode                string
	ProcessingID             string
	Version                  string
	Note                     string
}

// ServerConfig holds all configuration parameters of the receiver.
type ServerConfig struct {
	Transport ServerTransportConfig
	Sink      SinkConfig
	Ack       AckConfig

	// Prometheus endpoint (host:port), empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Listener settings
	addSection("MLLP Receiver")
	addField("Endpoint", c.Transport.Endpoint)
	addField("TCP No Delay", fmt.Sprintf("%t", c.Transport.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
	addField("Metrics Endpoint", orNone(c.MetricsEndpoint))

	// Storage
	addSection("Storage")
	addField("Sink", string(c.Sink.Type))
	if c.Sink.Type == SinkTypeFile {
		addField("Data Directory", c.Sink.DataDir)
	}
	addField("Prefix", c.Sink.Prefix)

	// Acknowledgment
	addSection("Acknowledgment")
	addField("Default Receiver", fmt.Sprintf("%s@%s", c.Ack.DefaultReceivingApp, c.Ack.DefaultReceivingFacility))
	addField("Message Type", "ACK^"+c.Ack.EventCode)
	addField("Processing ID", c.Ack.ProcessingID)
	addField("Version", c.Ack.Version)

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Sender configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig configures the outbound connection
type ClientTransportConfig struct {
	Endpoint string
	// RetryCount is the number of additional attempts after a connection error
	RetryCount int
	SocketConf
	TCPConf
}

type ClientConfig struct {
	ConnectTimeout  time.Duration // 0 means no limit
	ResponseTimeout time.Duration // overall limit for reading one acknowledgment, 0 means no limit
	Transport       ClientTransportConfig
	LogLevel        string
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Sender Configuration")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Connect Timeout", c.ConnectTimeout.String())
	addField("Response Timeout", c.ResponseTimeout.String())
	addField("Retry Count", fmt.Sprintf("%d", c.Transport.RetryCount))
	addField("Log Level", c.LogLevel)

	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}
