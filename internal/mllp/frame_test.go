package mllp

import (
	"bytes"
	"testing"
)

func TestWrapBytes(t *testing.T) {
	got := Wrap("MSH|^~\\&|A\r")
	want := append([]byte{0x0b}, append([]byte("MSH|^~\\&|A\r"), 0x1c, 0x0d)...)
	if !bytes.Equal(got, want) {
		t.Fatalf("wrap mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestUnwrap(t *testing.T) {
	message := "MSH|^~\\&|A\rMSA|AA|1\r"
	got, ok := Unwrap(Wrap(message))
	if !ok || got != message {
		t.Fatalf("unwrap: ok=%v got=%q", ok, got)
	}
	if _, ok := Unwrap([]byte{0x0b, 'p', 'a', 'r', 't'}); ok {
		t.Fatalf("unwrap accepted an unterminated frame")
	}
	if _, ok := Unwrap([]byte("no markers")); ok {
		t.Fatalf("unwrap accepted unframed bytes")
	}
}

func TestRoundTripSingleFrame(t *testing.T) {
	message := "MSH|^~\\&|ICU_SIM\rOBX|1|NM|8867-4^Heart rate^LN||82\r"

	var buf Buffer
	buf.Feed(Wrap(message))
	got := buf.ExtractAll()
	if len(got) != 1 || got[0] != message {
		t.Fatalf("unexpected extraction: %+v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty residual buffer, got %d bytes", buf.Len())
	}
}

func TestSplitFrameAtEveryOffset(t *testing.T) {
	message := "MSH|^~\\&|SPLIT\rPID|1\r"
	framed := Wrap(message)

	for offset := 0; offset <= len(framed); offset++ {
		var buf Buffer
		buf.Feed(framed[:offset])
		first := buf.ExtractAll()
		buf.Feed(framed[offset:])
		second := buf.ExtractAll()

		if offset < len(framed)-1 && len(first) != 0 {
			t.Fatalf("offset %d: extracted %+v from incomplete frame", offset, first)
		}
		all := append(first, second...)
		if len(all) != 1 || all[0] != message {
			t.Fatalf("offset %d: unexpected messages %+v", offset, all)
		}
	}
}

func TestMultipleFramesInOneFeed(t *testing.T) {
	var buf Buffer
	buf.Feed(append(Wrap("first\r"), Wrap("second\r")...))
	got := buf.ExtractAll()
	if len(got) != 2 || got[0] != "first\r" || got[1] != "second\r" {
		t.Fatalf("unexpected extraction: %+v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty residual buffer, got %d bytes", buf.Len())
	}
}

func TestIncompleteFrameStaysBuffered(t *testing.T) {
	var buf Buffer
	buf.Feed([]byte{0x0b, 'p', 'a', 'r', 't'})
	if got := buf.ExtractAll(); len(got) != 0 {
		t.Fatalf("extracted %+v from unterminated frame", got)
	}
	if buf.Len() != 5 {
		t.Fatalf("buffer rewound: %d bytes", buf.Len())
	}

	buf.Feed([]byte{'i', 'a', 'l', 0x1c, 0x0d})
	got := buf.ExtractAll()
	if len(got) != 1 || got[0] != "partial" {
		t.Fatalf("unexpected extraction after completion: %+v", got)
	}
}

func TestGarbageBeforeStartBlockIsSkipped(t *testing.T) {
	var buf Buffer
	buf.Feed(append([]byte("noise"), Wrap("msg\r")...))
	got := buf.ExtractAll()
	if len(got) != 1 || got[0] != "msg\r" {
		t.Fatalf("unexpected extraction: %+v", got)
	}
}

func TestInvalidUTF8IsDroppedNotFatal(t *testing.T) {
	var buf Buffer
	payload := []byte{0x0b, 'o', 'k', 0xff, 0xfe, '!', 0x1c, 0x0d}
	buf.Feed(payload)
	got := buf.ExtractAll()
	if len(got) != 1 || got[0] != "ok!" {
		t.Fatalf("unexpected extraction: %+v", got)
	}
}

func TestLateCarriageReturnDoesNotBlock(t *testing.T) {
	var buf Buffer
	framed := Wrap("msg\r")
	buf.Feed(framed[:len(framed)-1]) // everything except the trailing CR
	got := buf.ExtractAll()
	if len(got) != 1 || got[0] != "msg\r" {
		t.Fatalf("unexpected extraction: %+v", got)
	}
	buf.Feed(framed[len(framed)-1:])
	if got := buf.ExtractAll(); len(got) != 0 {
		t.Fatalf("stray CR produced messages: %+v", got)
	}
}
