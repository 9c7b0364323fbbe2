package sim

import (
	"math/rand"

	"github.com/danmuck/vitalctl/internal/hl7"
)

type drug struct {
	code string
	name string
}

var pumpDrugs = []drug{
	{"NORAD", "Norepinephrine"},
	{"PROP", "Propofol"},
	{"INS", "Insulin"},
	{"DEX", "Dexmedetomidine"},
	{"DOB", "Dobutamine"},
}

// Pump models an infusion pump: the rate drifts, the infused volume
// accumulates, and the drug is chosen once at construction. Rate and
// volume carry local (non-LOINC) observation codes; the drug name is a
// free-text observation.
type Pump struct {
	rnd *rand.Rand

	drug drug
	rate float64 // mL/h
	vol  float64 // mL
}

func NewPump(seed int64) *Pump {
	rnd := newRand(seed)
	return &Pump{
		rnd:  rnd,
		drug: pumpDrugs[rnd.Intn(len(pumpDrugs))],
		rate: uniform(rnd, 2, 20),
	}
}

func (p *Pump) Kind() string       { return "pump" }
func (p *Pump) SendingApp() string { return "PUMP_SIM" }

func (p *Pump) Step() {
	p.rate = walk(p.rnd, p.rate, 0, 50, 1.5)
	p.vol += p.rate / 60.0
}

func (p *Pump) Segments(b *hl7.Builder, observationTime string) []string {
	return []string{
		b.OBX(1, hl7.NumericObservation{
			Code: "PUMP_RATE", Text: "Infusion rate", CodingSystem: "L",
			Value: hl7.FormatNumber(p.rate, 1), UnitsCode: "mL/h",
			ObservationTime: observationTime,
		}),
		b.OBX(2, hl7.NumericObservation{
			Code: "PUMP_VOL", Text: "Volume infused", CodingSystem: "L",
			Value: hl7.FormatNumber(p.vol, 1), UnitsCode: "mL",
			ObservationTime: observationTime,
		}),
		b.TextOBX(3, "PUMP_DRUG", "Drug name", "L", p.drug.name, observationTime),
	}
}
