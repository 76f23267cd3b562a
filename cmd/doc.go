// Package cmd implements the command-line interface of mllp. It provides a
// receiver for HL7v2 messages framed with MLLP and a sender to transmit them.
//
// The package is organized into several subpackages:
//
//   - serve: Starts and configures the receiver
//   - send: Sends message files (or a sample message) and prints the acknowledgments
//   - perf: Measures round trip throughput against a running receiver
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set with environment variables of the form MLLP_<flag>
// (e.g. MLLP_LOG_LEVEL=debug). .env and .env.local are loaded if present.
//
// See mllp -help for a list of all commands.
package cmd
