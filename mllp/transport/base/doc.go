// Package base implements the MLLP session logic shared by all socket types. It is
// extended with protocol-specific connectors (tcp, unix) that only know how to
// listen, dial and tune a socket.
//
// The package focuses on:
//   - The receiver session loop: one goroutine per accepted connection, a private
//     stream buffer, strictly ordered handling and synchronous acknowledgments
//   - The sender session: framed write, a single response deadline and typed
//     outcomes for every way the exchange can fail
//   - Receiver metrics exported through VictoriaMetrics
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different socket types.
//
//   - serverTransport: accepts connections and runs the session state machine
//     AWAITING_DATA -> DRAINING_FRAMES -> ... -> CLOSED. Every complete frame is
//     handed to the registered handler and its acknowledgment is written before the
//     next frame is drained. Read errors, EOF and write errors end only the
//     affected session; a partial frame left in the buffer is discarded.
//
//   - clientTransport: sends one payload at a time over a reused connection. A
//     failed exchange closes the connection, the next Send redials. Failures are
//     never retried here.
//
// Metrics:
//
//	mllp_sessions_total, mllp_sessions_active, mllp_messages_received_total,
//	mllp_acks_sent_total, mllp_ack_write_errors_total and
//	mllp_noise_bytes_dropped_total are registered in the default VictoriaMetrics set.
//
// Thread Safety:
//
//	All public methods are thread-safe. Session state is owned by the session's
//	goroutine; only the session registry (xsync.MapOf) is shared.
package base
