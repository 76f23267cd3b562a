// Package framer implements the MLLP byte framing used to carry HL7v2 messages
// over a stream socket. MLLP has no length field: every message is wrapped in a
// single start byte (0x0B) and a two byte end sequence (0x1C 0x0D), so a reader
// has to scan an accumulating buffer for the markers.
//
// The package focuses on:
//   - Encoding a payload into a frame without escaping or copying surprises
//   - Extracting every complete payload from a buffer that may hold split,
//     batched or noisy data
//   - A stream Decoder that owns the per-connection buffer between reads
//
// Key Components:
//
//   - Encode: wraps a payload in the start and end markers.
//
//   - DecodeAll: pure function that scans a buffer left to right and returns
//     all complete payloads plus the unconsumed tail. It is total: malformed or
//     truncated input is never an error, it simply stays in the tail until more
//     bytes arrive.
//
//   - Decoder: stateful wrapper around DecodeAll used by the transport session
//     loops. Next reports a tagged Status (StatusOK / StatusIncomplete) instead
//     of an error.
//
//   - Strip: removes stray marker bytes from a payload that a peer may have
//     mis-framed.
//
// Thread Safety:
//
//	Encode, DecodeAll and Strip are pure and safe for concurrent use. A Decoder
//	is owned by a single connection and must not be shared between goroutines.
package framer
