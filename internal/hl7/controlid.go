package hl7

import (
	"fmt"
	"strings"
	"time"
)

// ControlIDSequence issues message control ids of the form
// MSG<unix-seconds>-<counter>. The timestamp is captured once at
// construction; the counter starts at 1 and is strictly increasing, so
// ids from one sequence never repeat. A sequence is owned by exactly one
// Builder and is not safe for unsynchronized concurrent use.
type ControlIDSequence struct {
	epoch int64
	next  int
}

// NewControlIDSequence captures now and starts the counter at 1.
func NewControlIDSequence(now time.Time) *ControlIDSequence {
	return &ControlIDSequence{epoch: now.Unix(), next: 1}
}

// Next draws one fresh control id.
func (s *ControlIDSequence) Next() string {
	id := fmt.Sprintf("MSG%d-%d", s.epoch, s.next)
	s.next++
	return id
}

// ControlID returns the MSH-10 message control id of an assembled
// message, or "" when the message does not open with an MSH segment
// carrying one. Only the first segment is inspected; this is positional
// lookup, not HL7 parsing.
func ControlID(message string) string {
	header, _, _ := strings.Cut(message, SegmentTerminator)
	if !strings.HasPrefix(header, "MSH"+FieldSeparator) {
		return ""
	}
	// MSH-1 is the field separator itself, so MSH-10 lands at split
	// index 9.
	fields := strings.Split(header, FieldSeparator)
	if len(fields) < 10 {
		return ""
	}
	return fields[9]
}
