// Package transport defines the interfaces and error types of the MLLP transport.
// It provides a common contract for the receiving and the sending side, while the
// base package implements the session logic and the tcp and unix packages provide
// the socket specific connectors.
//
// Key Components:
//
//   - IMLLPServerTransport: accepts connections, reassembles frames and writes one
//     acknowledgment per frame through a registered ServerHandleFunc.
//
//   - IMLLPClientTransport: sends one framed payload at a time and waits for the
//     acknowledgment frame.
//
//   - ConnectionError, TimeoutError, IncompleteResponseError: the distinct outcomes
//     a sender can observe. Use errors.As to tell them apart. They are never retried
//     inside the transport.
package transport
