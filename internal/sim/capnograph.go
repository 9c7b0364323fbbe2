package sim

import (
	"math/rand"

	"github.com/danmuck/vitalctl/internal/hl7"
)

// Capnograph models end-tidal CO2 and the respiratory rate derived from
// the CO2 waveform.
type Capnograph struct {
	rnd *rand.Rand

	etco2 float64
	rr    float64
}

func NewCapnograph(seed int64) *Capnograph {
	rnd := newRand(seed)
	return &Capnograph{
		rnd:   rnd,
		etco2: uniform(rnd, 35, 45),
		rr:    uniform(rnd, 10, 16),
	}
}

func (c *Capnograph) Kind() string       { return "capnograph" }
func (c *Capnograph) SendingApp() string { return "CAPNO_SIM" }

func (c *Capnograph) Step() {
	c.etco2 = walk(c.rnd, c.etco2, 20, 80, 1.0)
	c.rr = walk(c.rnd, c.rr, 6, 30, 0.6)
}

func (c *Capnograph) Segments(b *hl7.Builder, observationTime string) []string {
	return []string{
		b.OBX(1, hl7.NumericObservation{
			Code: "19891-1", Text: "Carbon dioxide [Partial pressure] in Exhaled gas --at end expiration", CodingSystem: "LN",
			Value: hl7.FormatNumber(c.etco2, 0), UnitsCode: "mm[Hg]",
			ObservationTime: observationTime,
		}),
		b.OBX(2, hl7.NumericObservation{
			Code: "9279-1", Text: "Respiratory rate", CodingSystem: "LN",
			Value: hl7.FormatNumber(c.rr, 0), UnitsCode: "/min",
			ObservationTime: observationTime,
		}),
	}
}
