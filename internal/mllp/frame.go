// Package mllp implements the Minimal Lower Layer Protocol: marker-based
// framing for carrying one HL7 message per frame over a TCP stream, plus
// the sender and receiver endpoints that speak it.
package mllp

import (
	"bytes"
	"strings"
)

// MLLP block markers. There is no length prefix; framing is
// marker-delimited only.
const (
	startBlock     = 0x0b // <VT>
	endBlock       = 0x1c // <FS>
	carriageReturn = 0x0d // <CR>
)

// Wrap frames one message payload for transmission:
// start-block + UTF-8 payload + end-block + carriage return.
func Wrap(message string) []byte {
	framed := make([]byte, 0, len(message)+3)
	framed = append(framed, startBlock)
	framed = append(framed, message...)
	framed = append(framed, endBlock, carriageReturn)
	return framed
}

// Unwrap extracts the payload of the first complete frame in data. ok is
// false when no complete frame is present.
func Unwrap(data []byte) (message string, ok bool) {
	start := bytes.IndexByte(data, startBlock)
	if start < 0 {
		return "", false
	}
	end := bytes.IndexByte(data[start+1:], endBlock)
	if end < 0 {
		return "", false
	}
	end += start + 1
	return strings.ToValidUTF8(string(data[start+1:end]), ""), true
}

// Buffer accumulates received bytes for one connection. It is append-only
// and only ever advances past consumed bytes; a partial frame stays
// buffered until its closing marker arrives on a later read.
type Buffer struct {
	data []byte
}

// Feed appends newly read bytes.
func (b *Buffer) Feed(p []byte) {
	b.data = append(b.data, p...)
}

// Len reports the number of buffered, unconsumed bytes.
func (b *Buffer) Len() int { return len(b.data) }

// ExtractAll consumes every complete frame currently buffered, in arrival
// order. For each frame the bytes strictly between the first start-block
// and the first end-block after it are one message; the buffer then
// advances past the end-block and one trailing carriage return when
// present. Invalid UTF-8 in a payload is dropped rather than surfaced as
// an error. When either marker is missing the remaining bytes stay
// buffered and ExtractAll returns what it has, possibly nothing.
func (b *Buffer) ExtractAll() []string {
	var messages []string
	for {
		start := bytes.IndexByte(b.data, startBlock)
		if start < 0 {
			return messages
		}
		end := bytes.IndexByte(b.data[start+1:], endBlock)
		if end < 0 {
			return messages
		}
		end += start + 1

		payload := b.data[start+1 : end]
		messages = append(messages, strings.ToValidUTF8(string(payload), ""))

		next := end + 1
		if next < len(b.data) && b.data[next] == carriageReturn {
			next++
		}
		b.data = b.data[next:]
	}
}
