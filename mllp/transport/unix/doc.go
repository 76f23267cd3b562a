// Package unix implements Unix domain socket connectors for the MLLP transport.
// It is meant for receivers and senders on the same host (for example a sidecar
// that forwards to the real peer). A stale socket file is removed before listening.
package unix
