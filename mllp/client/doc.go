// Package client wires the sending side of the MLLP transport. A Sender wraps an
// IMLLPClientTransport, reuses its connection for sequential messages and retries
// sends that failed with a *transport.ConnectionError (exponential backoff with
// jitter, ClientTransportConfig.RetryCount additional attempts). Timeouts and
// incomplete responses are returned right away because the receiver may already
// have processed the message.
//
// Round trip times and error counts are kept in a go-metrics registry and can be
// printed with WriteSummary.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  ConnectTimeout:  5 * time.Second,
//	  ResponseTimeout: 30 * time.Second,
//	  Transport:       common.ClientTransportConfig{Endpoint: "localhost:2575", RetryCount: 3},
//	}
//
//	sender, err := client.NewSender(config, tcp.NewTCPClientTransport())
//	if err != nil {
//	  log.Fatal(err)
//	}
//	defer sender.Close()
//
//	ack, err := sender.Send(payload)
package client
