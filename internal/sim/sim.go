// Package sim models bedside instruments as bounded random walks. Each
// device steps its internal state once per tick and renders the result as
// HL7 observation segments; the values are plausible, not physiological
// ground truth.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/danmuck/vitalctl/internal/hl7"
)

// Device is one simulated instrument feeding the HL7 encoder.
type Device interface {
	// Kind is the short device family name used in logs, metrics, and
	// configuration.
	Kind() string
	// SendingApp is the MSH-3 application identifier for this device.
	SendingApp() string
	// Step advances the random walk one tick.
	Step()
	// Segments renders the current state as OBX segments, all stamped
	// with the same observation time.
	Segments(b *hl7.Builder, observationTime string) []string
}

// New constructs a device by kind. seed 0 means time-seeded.
func New(kind string, seed int64) (Device, error) {
	switch kind {
	case "monitor":
		return NewMonitor(seed), nil
	case "ventilator":
		return NewVentilator(seed), nil
	case "capnograph":
		return NewCapnograph(seed), nil
	case "pump":
		return NewPump(seed), nil
	default:
		return nil, fmt.Errorf("sim: unknown device kind %q", kind)
	}
}

// Kinds lists every known device kind.
func Kinds() []string {
	return []string{"monitor", "ventilator", "capnograph", "pump"}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// walk nudges v by at most step in either direction, clamped to [lo, hi].
func walk(rnd *rand.Rand, v, lo, hi, step float64) float64 {
	v += (rnd.Float64()*2 - 1) * step
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// uniform draws from [lo, hi).
func uniform(rnd *rand.Rand, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}
