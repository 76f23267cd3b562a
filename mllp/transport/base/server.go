package base

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/framer"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("transport")

const (
	// DefaultReadBufferSize is the size of the per session read buffer
	DefaultReadBufferSize = 4 * 1024

	// acceptBackoff is the pause after a failed Accept
	acceptBackoff = 50 * time.Millisecond
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the receiver session loop independent of the socket type
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	bufferPool *sync.Pool
	sessions   *xsync.MapOf[uint64, net.Conn]
	nextID     atomic.Uint64
	wg         sync.WaitGroup

	mu       sync.Mutex // protects listener and closed
	listener net.Listener
	closed   bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport. bufferSize is the size
// of the read buffer of each session; values <= 0 use DefaultReadBufferSize.
func NewBaseServerTransport(connector IServerConnector, bufferSize int) transport.IMLLPServerTransport {
	if bufferSize <= 0 {
		bufferSize = DefaultReadBufferSize
	}

	return &serverTransport{
		connector: connector,
		sessions:  xsync.NewMapOf[uint64, net.Conn](),
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return make([]byte, bufferSize)
			},
		},
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IMLLPServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	return t.Serve(listener, config)
}

func (t *serverTransport) Serve(listener net.Listener, config common.ServerConfig) error {
	if t.handler == nil {
		_ = listener.Close()
		return fmt.Errorf("no handler registered")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		_ = listener.Close()
		return net.ErrClosed
	}
	t.listener = listener
	t.mu.Unlock()

	Logger.Infof("Starting %s receiver on %s", t.connector.GetName(), listener.Addr())

	// Accept connections
	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.isStopped() || isClosed(err) {
				Logger.Infof("Receiver on %s stopped", listener.Addr())
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			time.Sleep(acceptBackoff)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, config); err != nil {
			Logger.Warningf("Failed to apply socket options to %s: %v", conn.RemoteAddr(), err)
		}

		// Handle the connection in a goroutine
		if !t.track() {
			_ = conn.Close()
			continue
		}
		go t.handleConnection(conn)
	}
}

func (t *serverTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	var err error
	if t.listener != nil {
		err = t.listener.Close()
	}
	t.mu.Unlock()

	// Close all open sessions, their read loops return with an error
	t.sessions.Range(func(_ uint64, conn net.Conn) bool {
		_ = conn.Close()
		return true
	})

	t.wg.Wait()
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (t *serverTransport) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// track adds a session to the wait group unless the receiver is closed. The check and
// the Add happen under t.mu, so Close never waits on a counter that is still growing.
func (t *serverTransport) track() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	return true
}

// handleConnection runs the session loop of one connection:
// AWAITING_DATA -> DRAINING_FRAMES -> AWAITING_DATA ... -> CLOSED
func (t *serverTransport) handleConnection(conn net.Conn) {
	id := t.nextID.Add(1)
	t.sessions.Store(id, conn)
	sessionsTotal.Inc()
	activeSessions.Add(1)

	decoder := framer.NewDecoder()
	buf := t.bufferPool.Get().([]byte)

	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("Session %d: handler panicked: %v", id, r)
		}
		decoder.Reset()
		t.bufferPool.Put(buf)
		t.sessions.Delete(id)
		activeSessions.Add(-1)
		_ = conn.Close()
		t.wg.Done()
	}()

	// Close may have ranged over the sessions before this one was registered
	if t.isStopped() {
		return
	}

	Logger.Infof("Session %d: connection from %s", id, conn.RemoteAddr())

	var dropped uint64
	for {
		// AWAITING_DATA
		n, err := conn.Read(buf)

		if n > 0 {
			_, _ = decoder.Write(buf[:n])

			// DRAINING_FRAMES
			if werr := t.drain(id, conn, decoder); werr != nil {
				Logger.Errorf("Session %d: failed to write acknowledgment: %v", id, werr)
				return
			}

			if d := decoder.Dropped(); d > dropped {
				noiseBytesTotal.Add(int(d - dropped))
				Logger.Debugf("Session %d: dropped %d bytes outside of frames", id, d-dropped)
				dropped = d
			}
		}

		// CLOSED
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				Logger.Infof("Session %d: connection closed by %s", id, conn.RemoteAddr())
			case t.isStopped() || isClosed(err):
				Logger.Infof("Session %d: closed by receiver shutdown", id)
			default:
				Logger.Errorf("Session %d: read error: %v", id, err)
			}
			if pending := decoder.Buffered(); pending > 0 {
				Logger.Debugf("Session %d: discarding %d bytes of an incomplete frame", id, pending)
			}
			return
		}
	}
}

// drain handles every complete frame in the buffer in order. The acknowledgment of a
// frame is written before the next frame is taken from the buffer.
func (t *serverTransport) drain(id uint64, conn net.Conn, decoder *framer.Decoder) error {
	for {
		payload, status := decoder.Next()
		if status != framer.StatusOK {
			return nil
		}
		messagesReceivedTotal.Inc()

		start := time.Now()
		ack := t.handler(payload)

		if err := writeFrame(conn, ack); err != nil {
			ackWriteErrorsTotal.Inc()
			return err
		}
		acksSentTotal.Inc()
		Logger.Debugf("Session %d: acknowledged %d byte message in %s", id, len(payload), time.Since(start))
	}
}
