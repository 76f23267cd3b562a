// Package tcp implements the TCP connectors of the MLLP transport. It provides
// concrete implementations of the base package's connector interfaces and applies
// the configured socket options (TCP_NODELAY, keep-alive, linger, buffer sizes) to
// every accepted or dialed connection.
//
// See the base package documentation for the session logic.
package tcp
