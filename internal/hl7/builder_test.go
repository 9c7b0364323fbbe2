package hl7

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func splitFields(t *testing.T, segment string) []string {
	t.Helper()
	if !strings.HasSuffix(segment, SegmentTerminator) {
		t.Fatalf("segment not terminated: %q", segment)
	}
	return strings.Split(strings.TrimSuffix(segment, SegmentTerminator), FieldSeparator)
}

func TestOBXPositionalIntegrity(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	got := b.OBX(1, NumericObservation{
		Code:            "8867-4",
		Text:            "Heart rate",
		CodingSystem:    "LN",
		Value:           "82",
		UnitsCode:       "/min",
		UnitsSystem:     "UCUM",
		ObservationTime: "20250101120000",
	})
	want := "OBX|1|NM|8867-4^Heart rate^LN||82|/min^^UCUM||||||F||20250101120000\r"
	if got != want {
		t.Fatalf("obx mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestOBXDefaultsUnitsSystemAndTime(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	fields := splitFields(t, b.OBX(3, NumericObservation{
		Code: "8310-5", Text: "Body temperature", CodingSystem: "LN",
		Value: "36.8", UnitsCode: "Cel",
	}))
	if fields[1] != "3" || fields[2] != "NM" {
		t.Fatalf("unexpected prefix fields: %+v", fields)
	}
	if fields[6] != "Cel^^UCUM" {
		t.Fatalf("unexpected units: %q", fields[6])
	}
	if len(fields[14]) != 14 {
		t.Fatalf("expected defaulted observation time, got %q", fields[14])
	}
}

func TestTextOBXLayout(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	got := b.TextOBX(3, "PUMP_DRUG", "Drug name", "L", "Norepinephrine", "20250101120000")
	want := "OBX|3|TX|PUMP_DRUG^Drug name^L||Norepinephrine|||||||F||20250101120000\r"
	if got != want {
		t.Fatalf("text obx mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestMSHLayout(t *testing.T) {
	b := NewBuilder(BuilderConfig{SendingApp: "MONITOR_SIM"})
	fields := splitFields(t, b.MSH("20250101120000"))
	if len(fields) != 12 {
		t.Fatalf("unexpected field count %d: %+v", len(fields), fields)
	}
	if fields[1] != `^~\&` {
		t.Fatalf("unexpected encoding characters: %q", fields[1])
	}
	if fields[2] != "MONITOR_SIM" || fields[3] != "ICU" || fields[4] != "LIS" || fields[5] != "HOSP" {
		t.Fatalf("unexpected identities: %+v", fields[2:6])
	}
	if fields[6] != "20250101120000" || fields[7] != "" {
		t.Fatalf("unexpected time/security: %+v", fields[6:8])
	}
	if fields[8] != "ORU^R01^ORU_R01" || fields[10] != "P" || fields[11] != "2.5" {
		t.Fatalf("unexpected type/processing/version: %+v", fields)
	}
	if !strings.HasPrefix(fields[9], "MSG") {
		t.Fatalf("unexpected control id: %q", fields[9])
	}
}

func TestPIDLayout(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	fields := splitFields(t, b.PID("123456", "DOE^JOHN"))
	if len(fields) != 17 {
		t.Fatalf("unexpected field count %d: %+v", len(fields), fields)
	}
	if fields[1] != "1" || fields[3] != "123456^^^HOSP^MR" || fields[5] != "DOE^JOHN" {
		t.Fatalf("unexpected pid fields: %+v", fields)
	}
	if fields[16] != "U" {
		t.Fatalf("sex not at PID-16: %+v", fields)
	}
	for _, i := range []int{2, 4, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15} {
		if fields[i] != "" {
			t.Fatalf("expected empty field %d, got %q", i, fields[i])
		}
	}
}

func TestOBRLayout(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	fields := splitFields(t, b.OBR("20250101120000", "MONITOR^BED-01"))
	if len(fields) != 20 {
		t.Fatalf("unexpected field count %d: %+v", len(fields), fields)
	}
	placer, tag, ok := strings.Cut(fields[2], "^")
	if !ok || tag != "ICU_SIM" {
		t.Fatalf("unexpected placer order number: %q", fields[2])
	}
	if _, err := uuid.Parse(placer); err != nil {
		t.Fatalf("placer token not a uuid: %q (%v)", placer, err)
	}
	if fields[3] != "MONITOR^BED-01^DEVICE" {
		t.Fatalf("unexpected filler order number: %q", fields[3])
	}
	if fields[4] != "VITALS^Vital Signs Panel^L^76499-3^Vital signs^LN" {
		t.Fatalf("unexpected service id: %q", fields[4])
	}
	if fields[14] != "20250101120000" {
		t.Fatalf("observation time not at OBR-14: %+v", fields)
	}
	if fields[19] != "F" {
		t.Fatalf("result status not at OBR-19: %+v", fields)
	}
}

func TestMessageSharesOneTime(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	obx := b.OBX(1, NumericObservation{
		Code: "8867-4", Text: "Heart rate", CodingSystem: "LN",
		Value: "82", UnitsCode: "/min", ObservationTime: "20250101120000",
	})
	msg := b.Message("123456", "DOE^JOHN", "MONITOR^BED-01", []string{obx}, "20250101120000")

	segments := strings.SplitAfter(msg, SegmentTerminator)
	if !strings.HasPrefix(segments[0], "MSH|") {
		t.Fatalf("first segment is not MSH: %q", segments[0])
	}
	msh := splitFields(t, segments[0])
	obr := splitFields(t, segments[2])
	if msh[6] != "20250101120000" || obr[14] != "20250101120000" {
		t.Fatalf("message time not shared: msh=%q obr=%q", msh[6], obr[14])
	}
	if got := ControlID(msg); got != msh[9] {
		t.Fatalf("control id lookup mismatch: %q vs %q", got, msh[9])
	}
}

func TestMessageControlIDsNeverRepeat(t *testing.T) {
	b := NewBuilder(BuilderConfig{})
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		msg := b.Message("123456", "DOE^JOHN", "MONITOR^BED-01", nil, "20250101120000")
		id := ControlID(msg)
		if id == "" || seen[id] {
			t.Fatalf("control id missing or repeated: %q", id)
		}
		seen[id] = true
	}
}

func TestPanelOBXSkipsAbsentWithoutRenumbering(t *testing.T) {
	panel := []Metric{
		{Code: "8867-4", Text: "Heart rate", CodingSystem: "LN", UnitsCode: "/min", Key: "HR"},
		{Code: "9279-1", Text: "Respiratory rate", CodingSystem: "LN", UnitsCode: "/min", Key: "RR"},
		{Code: "8310-5", Text: "Body temperature", CodingSystem: "LN", UnitsCode: "Cel", Key: "Temp"},
	}
	values := map[string]string{"HR": "82", "Temp": "36.8"}

	b := NewBuilder(BuilderConfig{})
	segments := b.PanelOBX(panel, values, "20250101120000")
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segments), segments)
	}
	first := splitFields(t, segments[0])
	second := splitFields(t, segments[1])
	if first[1] != "1" || first[3] != "8867-4^Heart rate^LN" {
		t.Fatalf("unexpected first segment: %q", segments[0])
	}
	if second[1] != "3" || second[3] != "8310-5^Body temperature^LN" {
		t.Fatalf("skip renumbered surviving set id: %q", segments[1])
	}
}
