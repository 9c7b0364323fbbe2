package hl7

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BuilderConfig identifies the sending and receiving systems stamped into
// every message header.
type BuilderConfig struct {
	SendingApp        string
	SendingFacility   string
	ReceivingApp      string
	ReceivingFacility string
	Version           string
}

// DefaultBuilderConfig returns the ICU simulator identity defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		SendingApp:        "ICU_SIM",
		SendingFacility:   "ICU",
		ReceivingApp:      "LIS",
		ReceivingFacility: "HOSP",
		Version:           "2.5",
	}
}

// Builder assembles ORU^R01 observation result messages. One Builder owns
// one control-id sequence; it must not be shared across goroutines.
type Builder struct {
	cfg BuilderConfig
	seq *ControlIDSequence
}

// NewBuilder fills empty identity fields from DefaultBuilderConfig and
// captures a fresh control-id sequence.
func NewBuilder(cfg BuilderConfig) *Builder {
	def := DefaultBuilderConfig()
	if strings.TrimSpace(cfg.SendingApp) == "" {
		cfg.SendingApp = def.SendingApp
	}
	if strings.TrimSpace(cfg.SendingFacility) == "" {
		cfg.SendingFacility = def.SendingFacility
	}
	if strings.TrimSpace(cfg.ReceivingApp) == "" {
		cfg.ReceivingApp = def.ReceivingApp
	}
	if strings.TrimSpace(cfg.ReceivingFacility) == "" {
		cfg.ReceivingFacility = def.ReceivingFacility
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = def.Version
	}
	return &Builder{cfg: cfg, seq: NewControlIDSequence(time.Now())}
}

// MSH emits the message header segment for one ORU^R01 message, drawing a
// fresh control id from the builder's sequence.
func (b *Builder) MSH(messageTime string) string {
	return Segment("MSH",
		Text(EncodingCharacters),
		Text(b.cfg.SendingApp),
		Text(b.cfg.SendingFacility),
		Text(b.cfg.ReceivingApp),
		Text(b.cfg.ReceivingFacility),
		Text(messageTime),
		Empty(), // MSH-8 security
		Text("ORU^R01^ORU_R01"),
		Text(b.seq.Next()),
		Text("P"),
		Text(b.cfg.Version),
	)
}

// PID emits the patient identification segment: set id 1, identifier list
// <patientId>^^^HOSP^MR, patient name at PID-5, sex U at PID-16.
func (b *Builder) PID(patientID, patientName string) string {
	fields := make([]Field, 0, 16)
	fields = append(fields,
		Text("1"),
		Empty(),
		Composite(Text(patientID), Empty(), Empty(), Text("HOSP"), Text("MR")),
		Empty(),
		Text(patientName),
	)
	for i := 0; i < 10; i++ {
		fields = append(fields, Empty())
	}
	fields = append(fields, Text("U"))
	return Segment("PID", fields...)
}

// OBR emits the order segment for the vital-signs panel: a fresh
// uuid-based placer order number, the device id as filler order number,
// the fixed panel service id, the observation time at OBR-14, and final
// result status at OBR-19.
func (b *Builder) OBR(messageTime, deviceID string) string {
	fields := make([]Field, 0, 19)
	fields = append(fields,
		Text("1"),
		Composite(Text(uuid.NewString()), Text("ICU_SIM")),
		Composite(Text(deviceID), Text("DEVICE")),
		Composite(Text("VITALS"), Text("Vital Signs Panel"), Text("L"),
			Text("76499-3"), Text("Vital signs"), Text("LN")),
	)
	for i := 0; i < 9; i++ {
		fields = append(fields, Empty())
	}
	fields = append(fields, Text(messageTime))
	for i := 0; i < 4; i++ {
		fields = append(fields, Empty())
	}
	fields = append(fields, Text("F"))
	return Segment("OBR", fields...)
}

// NumericObservation is one NM-typed observation destined for an OBX
// segment. UnitsSystem defaults to UCUM; ObservationTime defaults to the
// current instant.
type NumericObservation struct {
	Code            string
	Text            string
	CodingSystem    string
	SubID           string
	Value           string
	UnitsCode       string
	UnitsText       string
	UnitsSystem     string
	ObservationTime string
}

// OBX emits one numeric observation segment. setID is the 1-based
// position of the observation within its message.
func (b *Builder) OBX(setID int, obs NumericObservation) string {
	unitsSystem := obs.UnitsSystem
	if unitsSystem == "" {
		unitsSystem = "UCUM"
	}
	units := Composite(Text(obs.UnitsCode), Text(obs.UnitsText), Text(unitsSystem))
	observationID := Composite(Text(obs.Code), Text(obs.Text), Text(obs.CodingSystem))
	return b.obx(setID, "NM", observationID, obs.SubID, obs.Value, units, obs.ObservationTime)
}

// TextOBX emits one TX-typed observation segment (free-text value, no
// units), positionally aligned with the numeric layout.
func (b *Builder) TextOBX(setID int, code, text, codingSystem, value, observationTime string) string {
	observationID := Composite(Text(code), Text(text), Text(codingSystem))
	return b.obx(setID, "TX", observationID, "", value, Empty(), observationTime)
}

func (b *Builder) obx(setID int, valueType string, observationID Field, subID, value string, units Field, observationTime string) string {
	if observationTime == "" {
		observationTime = Now()
	}
	return Segment("OBX",
		Int(setID),
		Text(valueType),
		observationID,
		Text(subID),
		Text(value),
		units,
		Empty(), // OBX-7 reference range
		Empty(), // OBX-8 abnormal flags
		Empty(), // OBX-9 probability
		Empty(), // OBX-10 nature of abnormal test
		Empty(), // OBX-11
		Text("F"),
		Empty(), // OBX-13
		Text(observationTime),
	)
}

// Metric names one panel entry: the observation identity, its units, and
// the value-map key it reads.
type Metric struct {
	Code         string
	Text         string
	CodingSystem string
	UnitsCode    string
	UnitsText    string
	Key          string
}

// PanelOBX builds one OBX per panel metric whose key is present in
// values. Absent metrics are skipped entirely, not emitted as empty
// segments, and the surviving segments keep their positional set ids: the
// set id is always the metric's 1-based position in the panel definition.
func (b *Builder) PanelOBX(panel []Metric, values map[string]string, observationTime string) []string {
	segments := make([]string, 0, len(panel))
	for i, m := range panel {
		value, ok := values[m.Key]
		if !ok {
			continue
		}
		segments = append(segments, b.OBX(i+1, NumericObservation{
			Code:            m.Code,
			Text:            m.Text,
			CodingSystem:    m.CodingSystem,
			Value:           value,
			UnitsCode:       m.UnitsCode,
			UnitsText:       m.UnitsText,
			ObservationTime: observationTime,
		}))
	}
	return segments
}

// Message assembles header + patient + order + observations into one
// immutable message text. messageTime "" means the current instant; the
// same time is stamped into MSH-7 and OBR-14 so the message is internally
// time-consistent unless an observation overrode its own time.
func (b *Builder) Message(patientID, patientName, deviceID string, observations []string, messageTime string) string {
	if messageTime == "" {
		messageTime = Now()
	}
	var sb strings.Builder
	sb.WriteString(b.MSH(messageTime))
	sb.WriteString(b.PID(patientID, patientName))
	sb.WriteString(b.OBR(messageTime, deviceID))
	for _, obs := range observations {
		sb.WriteString(obs)
	}
	return sb.String()
}
