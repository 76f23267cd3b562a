package perf

import (
	"errors"
	"github.com/ValentinKolb/mllp/lib/hl7"
	"github.com/ValentinKolb/mllp/lib/store/memstore"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/server"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/ValentinKolb/mllp/mllp/transport/tcp"
	"github.com/stretchr/testify/require"
	"net"
	"testing"
	"time"
)

// usePerfConfig points the perf globals at endpoint for the duration of the test
func usePerfConfig(t *testing.T, endpoint string, factory func() (transport.IMLLPClientTransport, error)) {
	t.Helper()

	oldConfig, oldTransport, oldConnections := perfConfig, newTransport, perfNumConnections
	t.Cleanup(func() {
		perfConfig, newTransport, perfNumConnections = oldConfig, oldTransport, oldConnections
	})

	perfConfig = &common.ClientConfig{
		ConnectTimeout:  time.Second,
		ResponseTimeout: 5 * time.Second,
		Transport:       common.ClientTransportConfig{Endpoint: endpoint},
	}
	newTransport = factory
	perfNumConnections = 2
}

func tcpTransport() (transport.IMLLPClientTransport, error) {
	return tcp.NewTCPClientTransport(), nil
}

func startReceiver(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := server.NewMLLPServer(common.ServerConfig{LogLevel: "error"}, tcp.NewTCPServerTransport(0), memstore.NewMemorySink(""), hl7.SystemClock{})
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(l) }()

	t.Cleanup(func() {
		require.NoError(t, s.Close())
		require.NoError(t, <-done)
	})
	return l.Addr().String()
}

// closedEndpoint returns a loopback address nobody listens on
func closedEndpoint(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

// TestCheckReceiverDown tests that an unreachable receiver fails the run
func TestCheckReceiverDown(t *testing.T) {
	usePerfConfig(t, closedEndpoint(t), tcpTransport)

	err := checkReceiver()
	var connErr *transport.ConnectionError
	require.True(t, errors.As(err, &connErr), "expected a connection error, got %v", err)
}

// TestCheckReceiverUp tests the reachability check against a running receiver
func TestCheckReceiverUp(t *testing.T) {
	usePerfConfig(t, startReceiver(t), tcpTransport)
	require.NoError(t, checkReceiver())
}

// TestBenchmarkSendConnectFailure tests that connections that cannot be opened are counted
func TestBenchmarkSendConnectFailure(t *testing.T) {
	usePerfConfig(t, closedEndpoint(t), tcpTransport)

	stats := &benchStats{}
	testing.Benchmark(func(b *testing.B) {
		benchmarkSend(b, "small", []byte("MSH|"), stats)
	})
	require.Greater(t, stats.connectErrors.Load(), int64(0))
}

// TestBenchmarkSendCountsFailures tests that unacknowledged messages are reported separately
func TestBenchmarkSendCountsFailures(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	// read one chunk and hang up without an acknowledgment
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				_, _ = conn.Read(make([]byte, 1024))
				_ = conn.Close()
			}()
		}
	}()

	usePerfConfig(t, l.Addr().String(), tcpTransport)

	stats := &benchStats{}
	result := testing.Benchmark(func(b *testing.B) {
		benchmarkSend(b, "small", []byte("MSH|"), stats)
	})

	require.Equal(t, int64(0), stats.connectErrors.Load())
	require.Equal(t, int64(result.N), stats.sendErrors.Load())
	require.Zero(t, acknowledgedPerSec(result, stats.sendErrors.Load()))
}

func TestAcknowledgedPerSec(t *testing.T) {
	result := testing.BenchmarkResult{N: 100, T: 2 * time.Second}

	require.InDelta(t, 50.0, acknowledgedPerSec(result, 0), 0.001)
	require.InDelta(t, 40.0, acknowledgedPerSec(result, 20), 0.001)
	require.Zero(t, acknowledgedPerSec(testing.BenchmarkResult{}, 0))
}
