package hl7

import (
	"strings"
	"testing"
	"time"
)

const testMessage = "MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\r" +
	"PID|1||PAT001^^^HOSPITAL^MR||DOE^JOHN\r" +
	"FT1|1||||||||||||||||||||||||44970\r"

// TestParse tests segment and field splitting
func TestParse(t *testing.T) {
	msg := Parse([]byte(testMessage))

	if len(msg.Segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(msg.Segments))
	}

	header, ok := msg.Header()
	if !ok || header.Tag() != "MSH" {
		t.Errorf("Expected MSH header, got %q", header.Tag())
	}
	if header.Field(9) != "MSG001" {
		t.Errorf("Expected control id at index 9, got %q", header.Field(9))
	}
	if header.Field(100) != "" {
		t.Errorf("Out of range field should be empty, got %q", header.Field(100))
	}
}

// TestParseLineEndings tests that LF and CRLF terminate segments as well
func TestParseLineEndings(t *testing.T) {
	for name, payload := range map[string]string{
		"CR":   "MSH|a\rPID|b\r",
		"LF":   "MSH|a\nPID|b\n",
		"CRLF": "MSH|a\r\nPID|b\r\n",
	} {
		t.Run(name, func(t *testing.T) {
			msg := Parse([]byte(payload))
			if len(msg.Segments) != 2 {
				t.Errorf("Expected 2 segments, got %d", len(msg.Segments))
			}
		})
	}
}

// TestParseEmpty tests that an empty payload yields no segments
func TestParseEmpty(t *testing.T) {
	msg := Parse(nil)
	if len(msg.Segments) != 0 {
		t.Errorf("Expected no segments, got %d", len(msg.Segments))
	}
	if _, ok := msg.Header(); ok {
		t.Error("Empty message should have no header")
	}
}

// TestExtractControlFields tests extraction from a complete header
func TestExtractControlFields(t *testing.T) {
	fields, usedDefaults := ExtractControlFields(Parse([]byte(testMessage)), DefaultRoles())

	expected := ControlFields{
		SendingApp:        "EHR",
		SendingFacility:   "HOSP",
		ReceivingApp:      "REV",
		ReceivingFacility: "INT",
		ControlID:         "MSG001",
	}
	if fields != expected {
		t.Errorf("Expected %v, got %v", expected, fields)
	}
	if usedDefaults {
		t.Error("Complete header should not use defaults")
	}
}

// TestExtractControlFieldsDefaults tests the sentinel values for short headers
func TestExtractControlFieldsDefaults(t *testing.T) {
	expected := ControlFields{
		SendingApp:        "UNKNOWN",
		SendingFacility:   "UNKNOWN",
		ReceivingApp:      "BILLING",
		ReceivingFacility: "HOSPITAL",
		ControlID:         "0",
	}

	inputs := []string{
		"",
		"\r\r",
		"\r" + testMessage,
		"garbage",
		"MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02",
		"MSH|^~\\&|A|B|C|D",
	}

	for _, in := range inputs {
		fields, usedDefaults := ExtractControlFields(Parse([]byte(in)), DefaultRoles())
		if fields != expected {
			t.Errorf("Input %q: expected %v, got %v", in, expected, fields)
		}
		if !usedDefaults {
			t.Errorf("Input %q: expected defaults to be reported", in)
		}
	}
}

// TestExtractControlFieldsRawHeaderLine tests that only carriage return ends the header line
func TestExtractControlFieldsRawHeaderLine(t *testing.T) {
	inputs := map[string]string{
		"LF inside timestamp": "MSH|^~\\&|EHR|HOSP|REV|INT|20240101\n000000||MDM^T02|MSG001|P|2.5\rPID|1\r",
		"LF terminated":       "MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\nPID|1\n",
		"CRLF terminated":     "MSH|^~\\&|EHR|HOSP|REV|INT|20240101000000||MDM^T02|MSG001|P|2.5\r\nPID|1\r\n",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			fields, usedDefaults := ExtractControlFields(Parse([]byte(in)), DefaultRoles())
			if usedDefaults {
				t.Fatalf("Expected the header to be read, got %v", fields)
			}
			if fields.SendingApp != "EHR" || fields.ReceivingFacility != "INT" || fields.ControlID != "MSG001" {
				t.Errorf("Unexpected control fields %v", fields)
			}
		})
	}
}

// TestExtractControlFieldsLeadingCR tests that an empty first line is not skipped
func TestExtractControlFieldsLeadingCR(t *testing.T) {
	msg := Parse([]byte("\r" + testMessage))

	fields, usedDefaults := ExtractControlFields(msg, DefaultRoles())
	if !usedDefaults || fields.ControlID != UnknownControlID || fields.SendingApp != UnknownIdentifier {
		t.Errorf("Expected sentinels for a leading carriage return, got %v", fields)
	}

	// the logging view still finds the header
	if !Inspect(msg).Ok() {
		t.Errorf("Expected inspection to skip the empty line: %s", Inspect(msg).Reason)
	}
	if info := ExtractInfo(msg); info.MessageType != "MDM^T02" {
		t.Errorf("Expected message type MDM^T02, got %q", info.MessageType)
	}
}

// TestExtractControlFieldsCustomRoles tests configured receiver defaults
func TestExtractControlFieldsCustomRoles(t *testing.T) {
	fields, _ := ExtractControlFields(Parse(nil), Defaults{ReceivingApp: "LAB", ReceivingFacility: "CLINIC"})
	if fields.ReceivingApp != "LAB" || fields.ReceivingFacility != "CLINIC" {
		t.Errorf("Expected LAB@CLINIC, got %s@%s", fields.ReceivingApp, fields.ReceivingFacility)
	}
}

// TestBuildAck tests the swapped routing fields and the echoed control id
func TestBuildAck(t *testing.T) {
	fields := ControlFields{
		SendingApp:        "A",
		SendingFacility:   "B",
		ReceivingApp:      "C",
		ReceivingFacility: "D",
		ControlID:         "M1",
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	ack := string(BuildAck(fields, now, DefaultAckOptions()))
	lines := strings.Split(strings.TrimSuffix(ack, "\r"), "\r")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), ack)
	}

	expectedHeader := "MSH|^~\\&|C|D|A|B|20240102030405||ACK^P03|M1|P|2.5"
	if lines[0] != expectedHeader {
		t.Errorf("Expected header %q, got %q", expectedHeader, lines[0])
	}

	expectedStatus := "MSA|AA|M1|Message received successfully"
	if lines[1] != expectedStatus {
		t.Errorf("Expected status %q, got %q", expectedStatus, lines[1])
	}
}

// TestBuildAckRoundTrip tests that an ack parses back into swapped control fields
func TestBuildAckRoundTrip(t *testing.T) {
	original, _ := ExtractControlFields(Parse([]byte(testMessage)), DefaultRoles())
	ack := BuildAck(original, time.Now(), DefaultAckOptions())

	fields, usedDefaults := ExtractControlFields(Parse(ack), DefaultRoles())
	if usedDefaults {
		t.Fatal("Ack header should be complete")
	}
	if fields.SendingApp != original.ReceivingApp || fields.ReceivingApp != original.SendingApp {
		t.Errorf("Routing not swapped: %v vs %v", fields, original)
	}
	if fields.ControlID != original.ControlID {
		t.Errorf("Control id not echoed: %s vs %s", fields.ControlID, original.ControlID)
	}
}

// TestInspect tests the tagged inspection result
func TestInspect(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ok      bool
	}{
		{"complete", testMessage, true},
		{"empty", "", false},
		{"wrong tag", "PID|1|2|3|4|5|6|7|8|9|10", false},
		{"short header", "MSH|^~\\&|A", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Inspect(Parse([]byte(tt.payload)))
			if res.Ok() != tt.ok {
				t.Errorf("Expected ok=%t, got %t (%s)", tt.ok, res.Ok(), res.Reason)
			}
			if !tt.ok && res.Reason == "" {
				t.Error("Malformed result should carry a reason")
			}
		})
	}
}

// TestExtractInfo tests the informational fields
func TestExtractInfo(t *testing.T) {
	info := ExtractInfo(Parse([]byte(testMessage)))
	if info.MessageType != "MDM^T02" {
		t.Errorf("Expected message type MDM^T02, got %q", info.MessageType)
	}
	if info.PatientID != "PAT001^^^HOSPITAL^MR" {
		t.Errorf("Unexpected patient id %q", info.PatientID)
	}
	if len(info.ProcedureCodes) != 1 || info.ProcedureCodes[0] != "44970" {
		t.Errorf("Expected procedure code 44970, got %v", info.ProcedureCodes)
	}

	short := ExtractInfo(Parse([]byte("MSH|^~\\&|A\rFT1|1" + strings.Repeat("|", 23) + "44970\r")))
	if len(short.ProcedureCodes) != 0 {
		t.Errorf("FT1 without field 25 should not report a code, got %v", short.ProcedureCodes)
	}

	empty := ExtractInfo(Parse(nil))
	if empty.MessageType != UnknownInfo || empty.PatientID != UnknownInfo || len(empty.ProcedureCodes) != 0 {
		t.Errorf("Expected unknown info, got %+v", empty)
	}
}

// TestExtractInfoLastSegment tests that repeated segments report the last occurrence
func TestExtractInfoLastSegment(t *testing.T) {
	payload := "MSH|^~\\&|A|B|C|D|20240101||ADT^A01|1|P|2.5\r" +
		"PID|1||FIRST\r" +
		"MSH|^~\\&|A|B|C|D|20240101||DFT^P03|2|P|2.5\r" +
		"PID|1||SECOND\r"

	info := ExtractInfo(Parse([]byte(payload)))
	if info.MessageType != "DFT^P03" || info.PatientID != "SECOND" {
		t.Errorf("Expected DFT^P03 and SECOND, got %+v", info)
	}
}

// TestNewSampleMDM tests that the sample message is a complete MDM^T02
func TestNewSampleMDM(t *testing.T) {
	msg := Parse(NewSampleMDM(time.Now()))
	if !Inspect(msg).Ok() {
		t.Fatalf("Sample message is malformed: %s", Inspect(msg).Reason)
	}
	if info := ExtractInfo(msg); info.MessageType != "MDM^T02" {
		t.Errorf("Expected MDM^T02, got %s", info.MessageType)
	}
	fields, _ := ExtractControlFields(msg, DefaultRoles())
	if fields.ControlID != "MSG001" {
		t.Errorf("Expected control id MSG001, got %s", fields.ControlID)
	}
}
