// Package hl7 provides the small slice of HL7v2 handling the MLLP transport needs:
// splitting a payload into segments and fields, reading the routing fields of the
// MSH header and building the acknowledgment for a received message.
//
// Everything in this package is total. Parse, ExtractControlFields, ExtractInfo
// and BuildAck accept any input, including empty or garbage payloads, and fall
// back to documented defaults instead of returning errors. Full HL7 grammar
// validation is deliberately not part of this package; Inspect only reports
// whether a payload looks like an HL7 message so that callers can log it.
//
// Acknowledgments are built from the first carriage return terminated line exactly
// as received. The normalized segment view (LF and CRLF accepted, empty lines
// skipped) only feeds Inspect and ExtractInfo.
package hl7
