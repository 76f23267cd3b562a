package hl7

import (
	"strings"
	"time"
)

const (
	// AcceptCode is the only acknowledgment code the receiver emits
	AcceptCode = "AA"
	// EncodingCharacters is MSH-2 of every generated message
	EncodingCharacters = "^~\\&"
	// TimestampLayout is the HL7 DTM format used in MSH-7
	TimestampLayout = "20060102150405"
)

// Clock provides the timestamp written into generated headers
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// AckOptions holds the static parts of an acknowledgment
type AckOptions struct {
	EventCode    string // trigger event after "ACK^"
	ProcessingID string // MSH-11
	Version      string // MSH-12
	Note         string // MSA-3 free text
}

// DefaultAckOptions returns the acknowledgment options of the reference receiver
func DefaultAckOptions() AckOptions {
	return AckOptions{
		EventCode:    "P03",
		ProcessingID: "P",
		Version:      "2.5",
		Note:         "Message received successfully",
	}
}

// BuildAck creates the acknowledgment payload for a message with the given control
// fields. Sending and receiving identifiers are swapped and the control ID is echoed:
//
//	MSH|^~\&|<recv-app>|<recv-fac>|<send-app>|<send-fac>|<ts>||ACK^<event>|<id>|<proc>|<version>
//	MSA|AA|<id>|<note>
func BuildAck(fields ControlFields, now time.Time, opts AckOptions) []byte {
	header := []string{
		HeaderTag,
		EncodingCharacters,
		fields.ReceivingApp,
		fields.ReceivingFacility,
		fields.SendingApp,
		fields.SendingFacility,
		now.Format(TimestampLayout),
		"",
		"ACK" + ComponentSeparator + opts.EventCode,
		fields.ControlID,
		opts.ProcessingID,
		opts.Version,
	}
	status := []string{
		StatusTag,
		AcceptCode,
		fields.ControlID,
		opts.Note,
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, FieldSeparator))
	sb.WriteString(SegmentTerminator)
	sb.WriteString(strings.Join(status, FieldSeparator))
	sb.WriteString(SegmentTerminator)
	return []byte(sb.String())
}
