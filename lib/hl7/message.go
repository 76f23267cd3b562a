package hl7

import (
	"strings"
)

const (
	// SegmentTerminator separates segments in a payload
	SegmentTerminator = "\r"
	// FieldSeparator separates fields in a segment
	FieldSeparator = "|"
	// ComponentSeparator separates components in a field
	ComponentSeparator = "^"

	// HeaderTag is the tag of the message header segment
	HeaderTag = "MSH"
	// StatusTag is the tag of the acknowledgment segment
	StatusTag = "MSA"
)

// Segment is one line of a payload split on the field separator.
// Fields[0] is the segment tag, so Fields[i] is the i-th field for every segment but MSH,
// where the field separator itself counts as MSH-1 and Fields[i] is MSH-(i+1).
type Segment struct {
	Fields []string
}

// Tag returns the segment tag (e.g. "MSH", "PID")
func (s Segment) Tag() string {
	return s.Field(0)
}

// Field returns the field at index i or "" if the segment is shorter
func (s Segment) Field(i int) string {
	if i < 0 || i >= len(s.Fields) {
		return ""
	}
	return s.Fields[i]
}

// Len returns the number of fields including the tag
func (s Segment) Len() int {
	return len(s.Fields)
}

// Message is a payload decoded into its segments
type Message struct {
	Segments []Segment

	// headerLine is the first carriage return terminated line as received,
	// before line endings are normalized or empty lines are dropped
	headerLine Segment
}

// HeaderLine returns the first line of the payload split on carriage return only.
// Unlike Header it may be empty, and a line feed inside it is kept as field content.
func (m Message) HeaderLine() Segment {
	return m.headerLine
}

// Header returns the first segment of the message. The second return value is
// false for a message without segments.
func (m Message) Header() (Segment, bool) {
	if len(m.Segments) == 0 {
		return Segment{}, false
	}
	return m.Segments[0], true
}

// All returns every segment with the given tag in message order
func (m Message) All(tag string) []Segment {
	var out []Segment
	for _, seg := range m.Segments {
		if seg.Tag() == tag {
			out = append(out, seg)
		}
	}
	return out
}

// Last returns the last segment with the given tag
func (m Message) Last(tag string) (Segment, bool) {
	for i := len(m.Segments) - 1; i >= 0; i-- {
		if m.Segments[i].Tag() == tag {
			return m.Segments[i], true
		}
	}
	return Segment{}, false
}

// Parse splits a payload into segments and fields. Line feeds and CRLF pairs are
// treated as segment terminators too, empty lines are skipped. The raw first line
// is kept separately, see HeaderLine.
func Parse(payload []byte) Message {
	text := string(payload)

	var msg Message
	first, _, _ := strings.Cut(text, SegmentTerminator)
	msg.headerLine = Segment{Fields: strings.Split(first, FieldSeparator)}

	text = strings.ReplaceAll(text, "\r\n", SegmentTerminator)
	text = strings.ReplaceAll(text, "\n", SegmentTerminator)
	for _, line := range strings.Split(text, SegmentTerminator) {
		if line == "" {
			continue
		}
		msg.Segments = append(msg.Segments, Segment{Fields: strings.Split(line, FieldSeparator)})
	}
	return msg
}
