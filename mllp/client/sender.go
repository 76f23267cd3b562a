package client

import (
	"fmt"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"io"
	"math/rand"
	"time"
)

var Logger = logger.GetLogger("client")

const (
	// initialBackoff is the pause before the first retry, it doubles with every attempt
	initialBackoff = 50 * time.Millisecond

	MetricRoundTrip = "mllp.send.roundtrip"
	MetricErrors    = "mllp.send.errors"
	MetricRetries   = "mllp.send.retries"
)

// Sender sends messages over one IMLLPClientTransport and records round trip times.
// Connection errors are retried with exponential backoff; timeouts and incomplete
// responses are not, since the receiver may already have accepted the message.
type Sender struct {
	config    common.ClientConfig
	transport transport.IMLLPClientTransport

	registry  gometrics.Registry
	roundTrip gometrics.Timer
	errs      gometrics.Counter
	retries   gometrics.Counter

	sleep func(time.Duration)
}

// NewSender connects the transport and returns a sender using it
func NewSender(config common.ClientConfig, transport transport.IMLLPClientTransport) (*Sender, error) {
	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	registry := gometrics.NewRegistry()
	return &Sender{
		config:    config,
		transport: transport,
		registry:  registry,
		roundTrip: gometrics.GetOrRegisterTimer(MetricRoundTrip, registry),
		errs:      gometrics.GetOrRegisterCounter(MetricErrors, registry),
		retries:   gometrics.GetOrRegisterCounter(MetricRetries, registry),
		sleep:     time.Sleep,
	}, nil
}

// Send sends one payload and returns the acknowledgment payload
func (s *Sender) Send(payload []byte) ([]byte, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= s.config.Transport.RetryCount; attempt++ {
		if attempt > 0 {
			s.retries.Inc(1)
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoff) * (0.9 + 0.2*rand.Float64())
			Logger.Warningf("Retrying in %s (attempt %d of %d): %v",
				time.Duration(jitter).Round(time.Millisecond), attempt, s.config.Transport.RetryCount, lastErr)
			s.sleep(time.Duration(jitter))
			backoff *= 2
		}

		start := time.Now()
		ack, err := s.transport.Send(payload)
		if err == nil {
			s.roundTrip.UpdateSince(start)
			return ack, nil
		}

		s.errs.Inc(1)
		lastErr = err

		var connErr *transport.ConnectionError
		if !errors.As(err, &connErr) {
			Logger.Errorf("Send failed: %v", errors.Cause(err))
			return nil, err
		}
	}

	if s.config.Transport.RetryCount == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("failed to send message after %d attempts: %w", s.config.Transport.RetryCount+1, lastErr)
}

// Close closes the transport
func (s *Sender) Close() error {
	return s.transport.Close()
}

// --------------------------------------------------------------------------
// Statistics
// --------------------------------------------------------------------------

// Stats is a snapshot of the sender metrics
type Stats struct {
	Sent    int64
	Errors  int64
	Retries int64
	Mean    time.Duration
	P95     time.Duration
	Max     time.Duration
}

// Stats returns a snapshot of the sender metrics
func (s *Sender) Stats() Stats {
	t := s.roundTrip.Snapshot()
	return Stats{
		Sent:    t.Count(),
		Errors:  s.errs.Snapshot().Count(),
		Retries: s.retries.Snapshot().Count(),
		Mean:    time.Duration(t.Mean()),
		P95:     time.Duration(t.Percentile(0.95)),
		Max:     time.Duration(t.Max()),
	}
}

// WriteSummary writes a short report of the sender metrics to w
func (s *Sender) WriteSummary(w io.Writer) {
	st := s.Stats()
	fmt.Fprintf(w, "sent: %d, errors: %d, retries: %d\n", st.Sent, st.Errors, st.Retries)
	if st.Sent > 0 {
		fmt.Fprintf(w, "round trip: mean %s, p95 %s, max %s\n",
			st.Mean.Round(time.Microsecond), st.P95.Round(time.Microsecond), st.Max.Round(time.Microsecond))
	}
}
