package base

import (
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/framer"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/pkg/errors"
	"io"
	"net"
	"sync"
	"time"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection, giving up after timeout (0 means no limit)
	Connect(endpoint string, timeout time.Duration) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

const (
	// DefaultIdleCheckAfter is how long a connection may sit unused before it is
	// checked for a peer close prior to the next send
	DefaultIdleCheckAfter = time.Second

	// idleCheckWait bounds the liveness read on an idle connection
	idleCheckWait = time.Millisecond
)

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the sender session independent of the socket type.
// Sends are serialized, so at most one message is in flight per connection.
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig
	conn      net.Conn
	lastUsed  time.Time
	idleCheck time.Duration
	mu        sync.Mutex // protects conn and lastUsed, serializes sends
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IMLLPClientTransport {
	return &clientTransport{
		connector: connector,
		idleCheck: DefaultIdleCheckAfter,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IMLLPClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if config.Transport.Endpoint == "" {
		return errors.New("no endpoint provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Store the config and drop an existing connection
	t.config = config
	t.closeConn()

	if err := t.dial(); err != nil {
		return err
	}

	Logger.Infof("Connected to %s using %s transport", config.Transport.Endpoint, t.connector.GetName())
	return nil
}

func (t *clientTransport) Send(payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A receiver with an idle timeout may have closed the connection since the last send
	if t.conn != nil && time.Since(t.lastUsed) >= t.idleCheck && !t.alive() {
		Logger.Infof("Connection to %s was closed while idle, reconnecting", t.config.Transport.Endpoint)
		t.closeConn()
	}

	// Redial if the previous exchange failed
	if t.conn == nil {
		if t.config.Transport.Endpoint == "" {
			return nil, errors.New("transport is not connected")
		}
		if err := t.dial(); err != nil {
			return nil, err
		}
	}

	ack, err := t.exchange(payload)
	if err != nil {
		// the session is abandoned, no partial state is kept
		t.closeConn()
		return nil, err
	}
	t.lastUsed = time.Now()
	return ack, nil
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeConn()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dial opens the connection to the configured endpoint. The caller must hold t.mu.
func (t *clientTransport) dial() error {
	endpoint := t.config.Transport.Endpoint

	conn, err := t.connector.Connect(endpoint, t.config.ConnectTimeout)
	if err != nil {
		return &transport.ConnectionError{Endpoint: endpoint, Err: errors.Wrap(err, "dial")}
	}

	// Upgrade the connection with protocol-specific settings
	if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
		_ = conn.Close()
		return &transport.ConnectionError{Endpoint: endpoint, Err: errors.Wrap(err, "upgrade connection")}
	}

	t.conn = conn
	t.lastUsed = time.Now()
	return nil
}

// alive reports whether the idle connection is still open. A read that times out
// means the peer has not closed it. Unexpected bytes are discarded. The caller must
// hold t.mu.
func (t *clientTransport) alive() bool {
	if err := t.conn.SetReadDeadline(time.Now().Add(idleCheckWait)); err != nil {
		return false
	}

	buf := make([]byte, 64)
	n, err := t.conn.Read(buf)
	if n > 0 {
		Logger.Warningf("Discarding %d unexpected bytes from idle connection to %s", n, t.config.Transport.Endpoint)
	}
	return err == nil || isTimeout(err)
}

// closeConn closes the current connection. The caller must hold t.mu.
func (t *clientTransport) closeConn() {
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
	}
}

// exchange writes one frame and reads until one complete acknowledgment frame arrived.
// The response timeout is a single deadline for the whole exchange.
func (t *clientTransport) exchange(payload []byte) ([]byte, error) {
	conn := t.conn
	endpoint := t.config.Transport.Endpoint

	var deadline time.Time
	if t.config.ResponseTimeout > 0 {
		deadline = time.Now().Add(t.config.ResponseTimeout)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, &transport.ConnectionError{Endpoint: endpoint, Err: errors.Wrap(err, "set deadline")}
	}

	if err := writeFrame(conn, payload); err != nil {
		if isTimeout(err) {
			return nil, &transport.TimeoutError{Endpoint: endpoint, Limit: t.config.ResponseTimeout}
		}
		return nil, &transport.ConnectionError{Endpoint: endpoint, Err: errors.Wrap(err, "write")}
	}

	decoder := framer.NewDecoder()
	buf := make([]byte, DefaultReadBufferSize)
	received := 0

	for {
		n, err := conn.Read(buf)

		if n > 0 {
			received += n
			_, _ = decoder.Write(buf[:n])

			if ack, status := decoder.Next(); status == framer.StatusOK {
				if pending := decoder.Buffered(); pending > 0 {
					Logger.Warningf("Discarding %d bytes received after the acknowledgment from %s", pending, endpoint)
				}
				return framer.Strip(ack), nil
			}
		}

		if err != nil {
			return nil, t.classify(err, received)
		}
	}
}

// classify maps a read error to the typed outcome reported to the caller
func (t *clientTransport) classify(err error, received int) error {
	endpoint := t.config.Transport.Endpoint

	switch {
	case isTimeout(err) && received == 0:
		return &transport.TimeoutError{Endpoint: endpoint, Limit: t.config.ResponseTimeout}
	case isTimeout(err):
		return &transport.IncompleteResponseError{Endpoint: endpoint, Received: received, Err: errors.Wrap(err, "response deadline")}
	case errors.Is(err, io.EOF):
		return &transport.IncompleteResponseError{Endpoint: endpoint, Received: received, Err: errors.Wrap(err, "peer closed")}
	default:
		return &transport.ConnectionError{Endpoint: endpoint, Err: errors.Wrap(err, "read")}
	}
}
