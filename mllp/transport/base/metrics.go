package base

import (
	"github.com/VictoriaMetrics/metrics"
	"sync/atomic"
)

// activeSessions counts open receiver sessions of all server transports
var activeSessions atomic.Int64

var (
	sessionsTotal         = metrics.NewCounter("mllp_sessions_total")
	messagesReceivedTotal = metrics.NewCounter("mllp_messages_received_total")
	acksSentTotal         = metrics.NewCounter("mllp_acks_sent_total")
	ackWriteErrorsTotal   = metrics.NewCounter("mllp_ack_write_errors_total")
	noiseBytesTotal       = metrics.NewCounter("mllp_noise_bytes_dropped_total")

	_ = metrics.NewGauge("mllp_sessions_active", func() float64 {
		return float64(activeSessions.Load())
	})
)
