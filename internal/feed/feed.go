// Package feed drives simulated devices: each runner steps its model on
// an interval, assembles one ORU^R01 message, and delivers it over MLLP
// or to a writer. Runners share nothing; every runner owns its builder
// and its client connection.
package feed

import (
	"io"
	"time"
)

// Config is the sender-side runtime shared by all device runners.
type Config struct {
	Host        string
	Port        int
	Timeout     time.Duration
	KeepAlive   bool
	PatientID   string
	PatientName string
	Stdout      bool      // print messages instead of sending
	Out         io.Writer // destination for Stdout mode; nil means os.Stdout
}

// DefaultConfig returns the simulator defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		KeepAlive:   true,
		PatientID:   "123456",
		PatientName: "DOE^JOHN",
	}
}

// DeviceConfig configures one simulated device runner.
type DeviceConfig struct {
	Kind     string
	DeviceID string
	Interval time.Duration
	Count    int   // messages to send; 0 means unbounded
	Seed     int64 // 0 means time-seeded
}
