package base

import (
	"errors"
	"github.com/ValentinKolb/mllp/mllp/framer"
	"io"
	"net"
)

// writeFrame frames the payload and writes it in a single call
func writeFrame(w io.Writer, payload []byte) error {
	_, err := w.Write(framer.Encode(payload))
	return err
}

// isTimeout reports whether err is a deadline expiry
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isClosed reports whether err is caused by a closed connection or listener
func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
