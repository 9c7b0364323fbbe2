package hl7

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Separator and terminator characters for the HL7 v2.x subset this
// package produces.
const (
	FieldSeparator     = "|"
	ComponentSeparator = "^"
	SegmentTerminator  = "\r"
	EncodingCharacters = `^~\&`
)

// Field is one positional HL7 field value: empty, scalar text, or a
// component-separated composite. Rendering is total; there is no invalid
// Field. Scalar content is emitted verbatim: embedded separator
// characters are NOT escaped, and callers that need a literal `^` inside
// one field (device ids like MONITOR^BED-01) rely on that passthrough.
type Field interface {
	render() string
}

type emptyField struct{}

func (emptyField) render() string { return "" }

type scalarField string

func (f scalarField) render() string { return string(f) }

type compositeField []Field

func (f compositeField) render() string {
	parts := make([]string, len(f))
	for i, p := range f {
		parts[i] = Render(p)
	}
	return strings.Join(parts, ComponentSeparator)
}

// Empty returns the empty field value.
func Empty() Field { return emptyField{} }

// Text returns a scalar field carrying s verbatim.
func Text(s string) Field { return scalarField(s) }

// Int returns a scalar field carrying the decimal rendering of n.
func Int(n int) Field { return scalarField(strconv.Itoa(n)) }

// Composite joins parts with the component separator. Positional
// emptiness is preserved: a missing part renders as an empty substring
// between separators, never collapsed away.
func Composite(parts ...Field) Field { return compositeField(parts) }

// Render returns the wire text of f. A nil Field renders empty.
func Render(f Field) string {
	if f == nil {
		return ""
	}
	return f.render()
}

// FormatNumber renders one numeric observation value. prec <= 0 rounds to
// the nearest integer; otherwise the value keeps exactly prec decimal
// places, trailing zeros included.
func FormatNumber(v float64, prec int) string {
	if prec <= 0 {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Timestamp renders t as an HL7 YYYYMMDDHHMMSS timestamp in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// Now returns the current instant as an HL7 timestamp.
func Now() string {
	return Timestamp(time.Now())
}
