package mllp

import (
	"strings"
	"testing"
)

func TestBuildAckPayload(t *testing.T) {
	var buf Buffer
	buf.Feed(BuildAck("MSG1700000000-1"))
	messages := buf.ExtractAll()
	if len(messages) != 1 {
		t.Fatalf("ack did not round-trip as one frame: %+v", messages)
	}

	segments := strings.Split(strings.TrimSuffix(messages[0], "\r"), "\r")
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segments)
	}
	if segments[1] != "MSA|AA|MSG1700000000-1" {
		t.Fatalf("unexpected MSA segment: %q", segments[1])
	}

	fields := strings.Split(segments[0], "|")
	if len(fields) != 12 {
		t.Fatalf("unexpected MSH field count %d: %+v", len(fields), fields)
	}
	if fields[0] != "MSH" || fields[1] != `^~\&` {
		t.Fatalf("unexpected MSH prefix: %+v", fields[:2])
	}
	if fields[2] != "MLLP_SERVER" || fields[3] != "TEST_FAC" {
		t.Fatalf("unexpected ack identity: %+v", fields[2:4])
	}
	if fields[4] != "" || fields[5] != "" {
		t.Fatalf("expected empty receiving identity: %+v", fields[4:6])
	}
	if len(fields[6]) != 14 {
		t.Fatalf("unexpected ack timestamp: %q", fields[6])
	}
	if fields[8] != "ACK^A01" || fields[9] != "MSG1700000000-1" || fields[10] != "P" || fields[11] != "2.5" {
		t.Fatalf("unexpected ack header tail: %+v", fields[8:])
	}
}
