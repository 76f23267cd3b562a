package framer

import (
	"bytes"
)

// Status is the tagged result of Decoder.Next
type Status int

const (
	// StatusIncomplete means no complete frame is buffered yet
	StatusIncomplete Status = iota
	// StatusOK means a payload was extracted
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Decoder is the stream buffer of a single connection. Bytes read from the socket
// are appended with Write, complete payloads are taken out with Next.
type Decoder struct {
	buf     []byte
	dropped uint64
}

// NewDecoder creates an empty stream decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Write appends p to the stream buffer. It implements io.Writer and never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	d.buf = append(d.buf, p...)
	return len(p), nil
}

// Next returns the oldest complete payload in the buffer. The returned slice is a
// copy and stays valid after further writes. If no frame is complete, Next returns
// StatusIncomplete and keeps the partial frame (noise in front of it is dropped).
func (d *Decoder) Next() ([]byte, Status) {
	payload, rest, dropped, ok := next(d.buf)
	d.dropped += uint64(dropped)

	if !ok {
		d.compact(rest)
		return nil, StatusIncomplete
	}

	out := bytes.Clone(payload)
	if out == nil {
		out = []byte{}
	}
	d.buf = rest
	return out, StatusOK
}

// Buffered returns the number of retained bytes (an incomplete frame prefix)
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Dropped returns the total number of noise bytes discarded so far
func (d *Decoder) Dropped() uint64 {
	return d.dropped
}

// Reset releases the buffer. A partial frame is discarded.
func (d *Decoder) Reset() {
	d.buf = nil
}

// compact moves rest to the front of the backing array so it can be reused
func (d *Decoder) compact(rest []byte) {
	if len(rest) == 0 {
		d.buf = d.buf[:0]
		return
	}
	n := copy(d.buf, rest)
	d.buf = d.buf[:n]
}
