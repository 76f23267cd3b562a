package common

import (
	"strings"
	"testing"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

// TestParseLogLevel tests the accepted level names
func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"":        logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, expected := range tests {
		lvl, err := ParseLogLevel(in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) failed: %v", in, err)
			continue
		}
		if lvl != expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", in, lvl, expected)
		}
	}

	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

// TestConfigString tests that the printed configuration contains the key settings
func TestConfigString(t *testing.T) {
	server := ServerConfig{
		Transport: ServerTransportConfig{Endpoint: "0.0.0.0:2575"},
		Sink:      SinkConfig{Type: SinkTypeFile, DataDir: "received", Prefix: "FT1"},
		Ack:       AckConfig{DefaultReceivingApp: "BILLING", DefaultReceivingFacility: "HOSPITAL", EventCode: "P03"},
		LogLevel:  "info",
	}
	out := server.String()
	for _, s := range []string{"0.0.0.0:2575", "received", "BILLING@HOSPITAL", "ACK^P03", "(disabled)"} {
		if !strings.Contains(out, s) {
			t.Errorf("Server config output misses %q:\n%s", s, out)
		}
	}

	client := ClientConfig{
		ConnectTimeout:  5 * time.Second,
		ResponseTimeout: 30 * time.Second,
		Transport:       ClientTransportConfig{Endpoint: "localhost:2575", RetryCount: 2},
	}
	out = client.String()
	for _, s := range []string{"localhost:2575", "5s", "30s"} {
		if !strings.Contains(out, s) {
			t.Errorf("Client config output misses %q:\n%s", s, out)
		}
	}
}
