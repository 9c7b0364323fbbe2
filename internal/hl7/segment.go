package hl7

import "strings"

// Segment serializes one named segment line: name, field-separator-joined
// fields, carriage-return terminator. Field count and position are
// significant; callers pad with Empty() when a later field is populated.
func Segment(name string, fields ...Field) string {
	var b strings.Builder
	b.WriteString(name)
	for _, f := range fields {
		b.WriteString(FieldSeparator)
		b.WriteString(Render(f))
	}
	b.WriteString(SegmentTerminator)
	return b.String()
}
