package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/mllp/lib/hl7"
	"github.com/ValentinKolb/mllp/lib/store"
	"github.com/ValentinKolb/mllp/mllp/common"
	"github.com/ValentinKolb/mllp/mllp/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"golang.org/x/sync/errgroup"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

var Logger = logger.GetLogger("server")

var (
	storeErrorsTotal       = metrics.NewCounter("mllp_store_errors_total")
	malformedMessagesTotal = metrics.NewCounter("mllp_messages_malformed_total")
	defaultRolesUsedTotal  = metrics.NewCounter("mllp_default_roles_used_total")
)

// MLLPServer is the receiving side. Every complete frame is inspected, stored
// and acknowledged with AA, also when it can not be interpreted or storing fails.
type MLLPServer struct {
	config    common.ServerConfig
	transport transport.IMLLPServerTransport
	sink      store.ISink
	clock     hl7.Clock
	defaults  hl7.Defaults
	ackOpts   hl7.AckOptions

	mu            sync.Mutex // protects metricsServer and closed
	metricsServer *http.Server
	closed        bool
}

// NewMLLPServer creates a new receiver
//
// Usage:
//
//	sink, err := server.NewSink(config.Sink)
//	...
//	s := server.NewMLLPServer(*config, tcp.NewTCPServerTransport(0), sink, hl7.SystemClock{})
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewMLLPServer(
	config common.ServerConfig,
	transport transport.IMLLPServerTransport,
	sink store.ISink,
	clock hl7.Clock,
) *MLLPServer {
	if clock == nil {
		clock = hl7.SystemClock{}
	}

	s := &MLLPServer{
		config:    config,
		transport: transport,
		sink:      sink,
		clock:     clock,
		defaults:  defaultsFromConfig(config.Ack),
		ackOpts:   ackOptionsFromConfig(config.Ack),
	}
	transport.RegisterHandler(s.Handle)
	return s
}

// Handle processes one payload and returns the acknowledgment payload
func (s *MLLPServer) Handle(payload []byte) []byte {
	msg := hl7.Parse(payload)

	if res := hl7.Inspect(msg); !res.Ok() {
		malformedMessagesTotal.Inc()
		Logger.Infof("Received malformed message (%s), acknowledging anyway", res.Reason)
	}

	fields, usedDefaults := hl7.ExtractControlFields(msg, s.defaults)
	if usedDefaults {
		defaultRolesUsedTotal.Inc()
		Logger.Infof("Header too short, acknowledging as %s@%s", fields.ReceivingApp, fields.ReceivingFacility)
	}

	info := hl7.ExtractInfo(msg)
	Logger.Infof("Received %s %s (patient %s, procedures %s)",
		info.MessageType, fields, info.PatientID, joinCodes(info.ProcedureCodes))

	if id, err := s.sink.Store(payload); err != nil {
		storeErrorsTotal.Inc()
		Logger.Errorf("Failed to store message %s in %s sink: %v", fields.ControlID, s.sink.GetName(), err)
	} else {
		Logger.Debugf("Stored message %s as %s", fields.ControlID, id)
	}

	return hl7.BuildAck(fields, s.clock.Now(), s.ackOpts)
}

// Serve initializes the loggers and runs the receiver on the configured endpoint
// until Close is called. The metrics endpoint, if configured, runs alongside.
func (s *MLLPServer) Serve() error {
	return s.run(func() error { return s.transport.Listen(s.config) })
}

// ServeListener is like Serve but accepts connections on an existing listener
func (s *MLLPServer) ServeListener(listener net.Listener) error {
	return s.run(func() error { return s.transport.Serve(listener, s.config) })
}

// Close stops the receiver and the metrics endpoint
func (s *MLLPServer) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := s.transport.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	s.stopMetrics()
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *MLLPServer) run(listen func() error) error {
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}
	Logger.Infof("Created MLLP receiver")
	Logger.Infof(s.config.String())

	var g errgroup.Group

	if s.config.MetricsEndpoint != "" {
		srv := s.startMetrics()
		if srv == nil {
			return nil
		}
		g.Go(func() error {
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			// the receiver is not run without its metrics
			_ = s.transport.Close()
			return fmt.Errorf("metrics endpoint failed: %w", err)
		})
	}

	g.Go(func() error {
		defer s.stopMetrics()
		// closed before the transport started
		if err := listen(); !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	return g.Wait()
}

// startMetrics creates the metrics server, it returns nil if Close was already called
func (s *MLLPServer) startMetrics() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	s.metricsServer = &http.Server{
		Addr:              s.config.MetricsEndpoint,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	Logger.Infof("Serving metrics on http://%s/metrics", s.config.MetricsEndpoint)
	return s.metricsServer
}

func (s *MLLPServer) stopMetrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metricsServer != nil {
		_ = s.metricsServer.Close()
	}
}

func defaultsFromConfig(c common.AckConfig) hl7.Defaults {
	d := hl7.DefaultRoles()
	if c.DefaultReceivingApp != "" {
		d.ReceivingApp = c.DefaultReceivingApp
	}
	if c.DefaultReceivingFacility != "" {
		d.ReceivingFacility = c.DefaultReceivingFacility
	}
	return d
}

func ackOptionsFromConfig(c common.AckConfig) hl7.AckOptions {
	o := hl7.DefaultAckOptions()
	if c.EventCode != "" {
		o.EventCode = c.EventCode
	}
	if c.ProcessingID != "" {
		o.ProcessingID = c.ProcessingID
	}
	if c.Version != "" {
		o.Version = c.Version
	}
	if c.Note != "" {
		o.Note = c.Note
	}
	return o
}

func joinCodes(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ",")
}
