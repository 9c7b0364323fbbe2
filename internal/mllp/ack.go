package mllp

import (
	"time"

	"github.com/danmuck/vitalctl/internal/hl7"
)

// Fixed identity stamped into every acknowledgment header.
const (
	ackSendingApp      = "MLLP_SERVER"
	ackSendingFacility = "TEST_FAC"
	ackVersion         = "2.5"
)

// BuildAck returns a framed application-accept acknowledgment for the
// given message control id: an ACK^A01 header timestamped now, followed
// by MSA|AA|<controlID>. The accept code is always AA; no negative
// acknowledgment path exists.
func BuildAck(controlID string) []byte {
	msh := hl7.Segment("MSH",
		hl7.Text(hl7.EncodingCharacters),
		hl7.Text(ackSendingApp),
		hl7.Text(ackSendingFacility),
		hl7.Empty(),
		hl7.Empty(),
		hl7.Text(hl7.Timestamp(time.Now())),
		hl7.Empty(),
		hl7.Text("ACK^A01"),
		hl7.Text(controlID),
		hl7.Text("P"),
		hl7.Text(ackVersion),
	)
	msa := hl7.Segment("MSA", hl7.Text("AA"), hl7.Text(controlID))
	return Wrap(msh + msa)
}
