package transport

import (
	"github.com/ValentinKolb/mllp/mllp/common"
	"net"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc handles one decoded payload and returns the acknowledgment payload.
// It is called by the server transport for every complete frame, in arrival order per
// connection. The transport frames and writes the returned payload before the next
// frame of the same connection is handled.
type ServerHandleFunc func(payload []byte) (ack []byte)

// IMLLPServerTransport is the interface of the receiving side
type IMLLPServerTransport interface {
	// RegisterHandler registers the payload handler. It must be called before Listen or Serve.
	RegisterHandler(handler ServerHandleFunc)
	// Listen creates a listener for the configured endpoint and serves it until Close is called.
	Listen(config common.ServerConfig) error
	// Serve accepts connections on an existing listener until Close is called.
	Serve(listener net.Listener, config common.ServerConfig) error
	// Close stops accepting and closes all open sessions.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IMLLPClientTransport is the interface of the sending side
type IMLLPClientTransport interface {
	// Connect stores the configuration and opens the connection to the peer
	Connect(config common.ClientConfig) error
	// Send frames and writes the payload and blocks until one acknowledgment frame
	// was read. Failures are reported as *ConnectionError, *TimeoutError or
	// *IncompleteResponseError; the connection is closed and redialed on the next call.
	Send(payload []byte) (ack []byte, err error)
	// Close closes the connection
	Close() error
}
