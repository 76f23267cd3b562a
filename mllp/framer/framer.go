package framer

import (
	"bytes"
)

// --------------------------------------------------------------------------
// Wire Constants
// --------------------------------------------------------------------------

const (
	// StartBlock marks the beginning of a frame (vertical tab)
	StartBlock byte = 0x0B
	// EndBlock is the first byte of the end sequence (file separator)
	EndBlock byte = 0x1C
	// CarriageReturn is the second byte of the end sequence
	CarriageReturn byte = 0x0D
)

// endSequence terminates a frame. It is matched atomically, a lone EndBlock is payload.
var endSequence = []byte{EndBlock, CarriageReturn}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode wraps the payload in the MLLP start and end markers.
// The payload is copied as is, it is neither escaped nor validated.
func Encode(payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+3)
	frame = append(frame, StartBlock)
	frame = append(frame, payload...)
	frame = append(frame, endSequence...)
	return frame
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// DecodeAll extracts every complete payload from buf in order and returns the
// unconsumed tail. Bytes in front of a start marker are dropped as noise, so the
// tail is either empty or begins with a start marker of a frame that is not yet
// terminated.
//
// The returned payloads and tail alias buf. DecodeAll never fails: calling it again
// on the returned tail yields no payloads and the same tail.
func DecodeAll(buf []byte) (payloads [][]byte, rest []byte) {
	rest = buf
	for {
		payload, tail, _, ok := next(rest)
		rest = tail
		if !ok {
			return payloads, rest
		}
		payloads = append(payloads, payload)
	}
}

// next locates the first complete frame in buf. It returns the payload, the
// remaining bytes after the frame and the number of noise bytes skipped in front
// of the start marker. If no complete frame exists, ok is false and rest holds the
// retained prefix (empty if buf contained no start marker at all).
func next(buf []byte) (payload, rest []byte, dropped int, ok bool) {
	start := bytes.IndexByte(buf, StartBlock)
	if start < 0 {
		return nil, nil, len(buf), false
	}
	buf = buf[start:]

	end := bytes.Index(buf[1:], endSequence)
	if end < 0 {
		return nil, buf, start, false
	}

	payload = buf[1 : 1+end]
	rest = buf[1+end+len(endSequence):]
	return payload, rest, start, true
}

// Strip removes every start and end block byte from b. The sender applies it to
// extracted responses to tolerate peers that put markers inside the payload.
func Strip(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == StartBlock || c == EndBlock {
			continue
		}
		out = append(out, c)
	}
	return out
}
