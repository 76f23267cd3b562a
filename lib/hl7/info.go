package hl7

const (
	idxPatientID     = 3  // PID-3
	idxProcedureCode = 25 // FT1-25

	// UnknownInfo is reported for info fields that are missing
	UnknownInfo = "Unknown"
)

// Info is a summary of a message used for logging
type Info struct {
	MessageType    string
	PatientID      string
	ProcedureCodes []string
}

// ExtractInfo reads the message type, the patient identifier and the procedure
// codes of all FT1 segments. Repeated MSH or PID segments are read from the last
// occurrence. Missing values are reported as UnknownInfo.
func ExtractInfo(msg Message) Info {
	info := Info{
		MessageType:    UnknownInfo,
		PatientID:      UnknownInfo,
		ProcedureCodes: []string{},
	}

	if msh, ok := msg.Last(HeaderTag); ok && msh.Len() > idxMessageType {
		info.MessageType = msh.Field(idxMessageType)
	}
	if pid, ok := msg.Last("PID"); ok && pid.Len() > idxPatientID {
		info.PatientID = pid.Field(idxPatientID)
	}
	for _, ft1 := range msg.All("FT1") {
		if ft1.Len() > idxProcedureCode {
			info.ProcedureCodes = append(info.ProcedureCodes, ft1.Field(idxProcedureCode))
		}
	}
	return info
}
