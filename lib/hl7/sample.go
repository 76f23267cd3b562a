package hl7

import (
	"strings"
	"time"
)

// NewSampleMDM creates an MDM^T02 document notification with an operative note.
// It is sent by the CLI when no message files are given.
func NewSampleMDM(now time.Time) []byte {
	ts := now.Format(TimestampLayout)
	segments := []string{
		"MSH|^~\\&|EHR|HOSPITAL|REVSTREAM|INTEGRATION|" + ts + "||MDM^T02|MSG001|P|2.5",
		"EVN|T02|" + ts,
		"PID|1||PAT001^^^HOSPITAL^MR||DOE^JOHN^A||19800115|M|||123 MAIN ST^^ANYTOWN^ST^12345",
		"PV1|1|I|MED^101^A|E|||DOC001^SMITH^JANE|||MED||||ADM",
		"TXA|1|OP|TX|" + ts + "|DOC001^SMITH^JANE|" + ts + "||||DOC123||||||AU",
		"OBX|1|TX|PROCEDURE^Operative Note||Patient presents with acute appendicitis. " +
			"Laparoscopic appendectomy performed successfully. " +
			"No complications observed. " +
			"Diagnosis: Acute appendicitis with peritoneal abscess.||",
	}
	return []byte(strings.Join(segments, SegmentTerminator) + SegmentTerminator)
}
