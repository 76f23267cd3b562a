// Package server wires the receiving side of the MLLP transport. It registers a
// handler on an IMLLPServerTransport that, for every complete frame, parses the
// HL7 payload, logs a short summary, hands the raw payload to a store.ISink and
// returns an accept acknowledgment (MSA|AA) built with hl7.BuildAck.
//
// Messages are acknowledged even when they are malformed or when storing fails;
// those cases are logged and counted (mllp_messages_malformed_total,
// mllp_store_errors_total). When ServerConfig.MetricsEndpoint is set, all
// counters are served in Prometheus format on /metrics next to the receiver.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Transport: common.ServerTransportConfig{Endpoint: "0.0.0.0:2575"},
//	  Sink:      common.SinkConfig{Type: common.SinkTypeFile, DataDir: "./received"},
//	  LogLevel:  "info",
//	}
//
//	sink, err := server.NewSink(config.Sink)
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	s := server.NewMLLPServer(config, tcp.NewTCPServerTransport(0), sink, hl7.SystemClock{})
//	if err := s.Serve(); err != nil {
//	  log.Fatal(err)
//	}
package server
