// Package filestore implements a store.ISink that writes each received payload to
// its own file. File names carry a microsecond timestamp
// (<prefix>_<YYYYMMDD_HHMMSS_micro>.hl7); payloads stored within the same
// microsecond get a numeric suffix. The returned identifier is the file path.
//
// Writes are serialized with a mutex so name allocation never races between
// sessions. Files are created with O_EXCL and are never overwritten.
package filestore
