// Package store provides the storage collaborator of the MLLP receiver. Every
// decoded message is handed to an ISink before it is acknowledged; the sink returns
// a stable identifier (for example a timestamped file name) that is logged with
// the message.
//
// The package focuses on:
//   - A unified interface (ISink) so the receiver does not depend on a backend
//   - Structured error reporting with return codes
//
// Implementations:
//
//	- File Sink (filestore): writes every payload to its own file in a directory,
//	  named <prefix>_<YYYYMMDD_HHMMSS_micro>.hl7.
//	  Available in the "github.com/ValentinKolb/mllp/lib/store/filestore" package.
//
//	- Memory Sink (memstore): keeps payloads in a concurrent map. Used in tests and
//	  for throwaway receivers.
//	  Available in the "github.com/ValentinKolb/mllp/lib/store/memstore" package.
//
// Thread Safety:
//
//	All implementations are safe for concurrent use by multiple sessions.
package store
