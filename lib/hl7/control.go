package hl7

import (
	"fmt"
)

// Pipe split positions of the routing fields in the MSH segment
const (
	idxSendingApp        = 2 // MSH-3
	idxSendingFacility   = 3 // MSH-4
	idxReceivingApp      = 4 // MSH-5
	idxReceivingFacility = 5 // MSH-6
	idxMessageType       = 8 // MSH-9
	idxControlID         = 9 // MSH-10

	// minHeaderFields is the number of pipe split fields needed to read the control ID
	minHeaderFields = idxControlID + 1
)

const (
	// UnknownIdentifier replaces a sending application or facility that could not be read
	UnknownIdentifier = "UNKNOWN"
	// UnknownControlID replaces a control ID that could not be read
	UnknownControlID = "0"
)

// ControlFields are the routing fields of a message header needed to acknowledge it
type ControlFields struct {
	SendingApp        string
	SendingFacility   string
	ReceivingApp      string
	ReceivingFacility string
	ControlID         string
}

func (c ControlFields) String() string {
	return fmt.Sprintf("%s@%s -> %s@%s (control id %s)",
		c.SendingApp, c.SendingFacility, c.ReceivingApp, c.ReceivingFacility, c.ControlID)
}

// Defaults are the receiver role identifiers used when a header is too short
type Defaults struct {
	ReceivingApp      string
	ReceivingFacility string
}

// DefaultRoles returns the receiver identifiers used when nothing is configured
func DefaultRoles() Defaults {
	return Defaults{
		ReceivingApp:      "BILLING",
		ReceivingFacility: "HOSPITAL",
	}
}

// ExtractControlFields reads the routing fields from the first carriage return
// terminated line of the payload (see Message.HeaderLine). If that line has fewer
// than ten pipe split fields, all values are replaced by sentinels and usedDefaults
// is true.
func ExtractControlFields(msg Message, defaults Defaults) (fields ControlFields, usedDefaults bool) {
	header := msg.HeaderLine()
	if header.Len() < minHeaderFields {
		return ControlFields{
			SendingApp:        UnknownIdentifier,
			SendingFacility:   UnknownIdentifier,
			ReceivingApp:      defaults.ReceivingApp,
			ReceivingFacility: defaults.ReceivingFacility,
			ControlID:         UnknownControlID,
		}, true
	}

	return ControlFields{
		SendingApp:        header.Field(idxSendingApp),
		SendingFacility:   header.Field(idxSendingFacility),
		ReceivingApp:      header.Field(idxReceivingApp),
		ReceivingFacility: header.Field(idxReceivingFacility),
		ControlID:         header.Field(idxControlID),
	}, false
}

// --------------------------------------------------------------------------
// Inspection
// --------------------------------------------------------------------------

// ResultKind tags the outcome of Inspect
type ResultKind int

const (
	// ResultOK means the payload starts with a complete MSH header
	ResultOK ResultKind = iota
	// ResultMalformed means the frame was complete but its content is not interpretable
	ResultMalformed
)

// Result is the outcome of Inspect
type Result struct {
	Kind   ResultKind
	Reason string
}

// Ok reports whether the message looked well formed
func (r Result) Ok() bool {
	return r.Kind == ResultOK
}

// Inspect checks whether msg looks like an HL7 message. It never changes how a
// message is acknowledged, the result is informational.
func Inspect(msg Message) Result {
	header, ok := msg.Header()
	if !ok {
		return Result{Kind: ResultMalformed, Reason: "empty payload"}
	}
	if header.Tag() != HeaderTag {
		return Result{Kind: ResultMalformed, Reason: fmt.Sprintf("first segment is %q, expected %s", header.Tag(), HeaderTag)}
	}
	if header.Len() < minHeaderFields {
		return Result{Kind: ResultMalformed, Reason: fmt.Sprintf("header has %d fields, expected at least %d", header.Len(), minHeaderFields)}
	}
	return Result{Kind: ResultOK}
}
