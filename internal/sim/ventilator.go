package sim

import (
	"math/rand"

	"github.com/danmuck/vitalctl/internal/hl7"
)

// Ventilator models respiratory rate, expired tidal volume, PEEP, and
// delivered oxygen fraction.
type Ventilator struct {
	rnd *rand.Rand

	rr   float64
	vte  float64
	peep float64
	fio2 float64
}

func NewVentilator(seed int64) *Ventilator {
	rnd := newRand(seed)
	return &Ventilator{
		rnd:  rnd,
		rr:   uniform(rnd, 12, 20),
		vte:  uniform(rnd, 380, 520),
		peep: uniform(rnd, 4, 8),
		fio2: uniform(rnd, 0.30, 0.5),
	}
}

func (v *Ventilator) Kind() string       { return "ventilator" }
func (v *Ventilator) SendingApp() string { return "VENTILATOR_SIM" }

func (v *Ventilator) Step() {
	v.rr = walk(v.rnd, v.rr, 8, 35, 0.8)
	v.vte = walk(v.rnd, v.vte, 200, 800, 15.0)
	v.peep = walk(v.rnd, v.peep, 0, 20, 0.5)
	v.fio2 = walk(v.rnd, v.fio2, 0.21, 1.0, 0.02)
}

func (v *Ventilator) Segments(b *hl7.Builder, observationTime string) []string {
	return []string{
		b.OBX(1, hl7.NumericObservation{
			Code: "9279-1", Text: "Respiratory rate", CodingSystem: "LN",
			Value: hl7.FormatNumber(v.rr, 0), UnitsCode: "/min",
			ObservationTime: observationTime,
		}),
		b.OBX(2, hl7.NumericObservation{
			Code: "19868-9", Text: "Tidal volume setting Ventilator", CodingSystem: "LN",
			Value: hl7.FormatNumber(v.vte, 0), UnitsCode: "mL",
			ObservationTime: observationTime,
		}),
		b.OBX(3, hl7.NumericObservation{
			Code: "20077-4", Text: "Positive end expiratory pressure setting Ventilator", CodingSystem: "LN",
			Value: hl7.FormatNumber(v.peep, 1), UnitsCode: "cm[H2O]",
			ObservationTime: observationTime,
		}),
		b.OBX(4, hl7.NumericObservation{
			Code: "3150-0", Text: "Oxygen inhaled concentration", CodingSystem: "LN",
			Value: hl7.FormatNumber(v.fio2*100, 1), UnitsCode: "%",
			ObservationTime: observationTime,
		}),
	}
}
