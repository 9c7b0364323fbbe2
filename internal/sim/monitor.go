package sim

import (
	"math/rand"

	"github.com/danmuck/vitalctl/internal/hl7"
)

// MonitorPanel is the vital-signs panel emitted by the bedside monitor,
// in emission order. Set ids are positional within this definition.
var MonitorPanel = []hl7.Metric{
	{Code: "8867-4", Text: "Heart rate", CodingSystem: "LN", UnitsCode: "/min", Key: "HR"},
	{Code: "59408-5", Text: "Oxygen saturation in Arterial blood by Pulse oximetry", CodingSystem: "LN", UnitsCode: "%", Key: "SpO2"},
	{Code: "8310-5", Text: "Body temperature", CodingSystem: "LN", UnitsCode: "Cel", Key: "Temp"},
	{Code: "8480-6", Text: "Systolic blood pressure", CodingSystem: "LN", UnitsCode: "mm[Hg]", Key: "Sys"},
	{Code: "8462-4", Text: "Diastolic blood pressure", CodingSystem: "LN", UnitsCode: "mm[Hg]", Key: "Dia"},
	{Code: "8478-0", Text: "Mean blood pressure", CodingSystem: "LN", UnitsCode: "mm[Hg]", Key: "MAP"},
}

// Monitor models a bedside monitor: heart rate, oxygen saturation,
// temperature, and blood pressures walk independently; MAP is derived
// from the pressures.
type Monitor struct {
	rnd *rand.Rand

	hr   float64
	spo2 float64
	temp float64
	sys  float64
	dia  float64
}

func NewMonitor(seed int64) *Monitor {
	rnd := newRand(seed)
	return &Monitor{
		rnd:  rnd,
		hr:   uniform(rnd, 70, 95),
		spo2: uniform(rnd, 95, 99),
		temp: uniform(rnd, 36.5, 37.3),
		sys:  uniform(rnd, 110, 130),
		dia:  uniform(rnd, 70, 85),
	}
}

func (m *Monitor) Kind() string       { return "monitor" }
func (m *Monitor) SendingApp() string { return "MONITOR_SIM" }

func (m *Monitor) Step() {
	m.hr = walk(m.rnd, m.hr, 45, 150, 2.0)
	m.spo2 = walk(m.rnd, m.spo2, 80, 100, 0.4)
	m.temp = walk(m.rnd, m.temp, 35.0, 40.0, 0.08)
	m.sys = walk(m.rnd, m.sys, 80, 200, 2.5)
	m.dia = walk(m.rnd, m.dia, 40, 120, 2.0)
}

// MAP is the mean arterial pressure derived from the current walk state.
func (m *Monitor) MAP() float64 {
	return m.dia + (m.sys-m.dia)/3.0
}

// Values renders the current snapshot keyed by panel metric.
func (m *Monitor) Values() map[string]string {
	return map[string]string{
		"HR":   hl7.FormatNumber(m.hr, 0),
		"SpO2": hl7.FormatNumber(m.spo2, 1),
		"Temp": hl7.FormatNumber(m.temp, 1),
		"Sys":  hl7.FormatNumber(m.sys, 0),
		"Dia":  hl7.FormatNumber(m.dia, 0),
		"MAP":  hl7.FormatNumber(m.MAP(), 0),
	}
}

func (m *Monitor) Segments(b *hl7.Builder, observationTime string) []string {
	return b.PanelOBX(MonitorPanel, m.Values(), observationTime)
}
