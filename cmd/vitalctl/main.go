// vitalctl feeds simulated ICU device observations to an MLLP listener
// as HL7 v2.5 ORU^R01 messages, or prints them for inspection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/vitalctl/internal/feed"
	"github.com/danmuck/vitalctl/internal/observability"
)

type options struct {
	configPath string

	host   string
	port   int
	stdout bool

	device   string
	deviceID string
	interval time.Duration
	count    int
	seed     int64

	patientID   string
	patientName string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "TOML config describing the device fleet")
	flag.StringVar(&opts.host, "mllp-host", "", "MLLP receiver host")
	flag.IntVar(&opts.port, "mllp-port", 0, "MLLP receiver port")
	flag.BoolVar(&opts.stdout, "stdout", false, "print messages instead of sending")
	flag.StringVar(&opts.device, "device", "monitor", "device kind: monitor | ventilator | capnograph | pump")
	flag.StringVar(&opts.deviceID, "device-id", "", "device identifier for OBR-3 (defaults per kind)")
	flag.DurationVar(&opts.interval, "interval", 0, "delay between messages (defaults per kind)")
	flag.IntVar(&opts.count, "count", 0, "messages to send before exiting; 0 runs until interrupted")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock")
	flag.StringVar(&opts.patientID, "patient-id", "", "patient identifier for PID-3")
	flag.StringVar(&opts.patientName, "patient-name", "", "patient name for PID-5, family^given")
	flag.Parse()

	observability.InitLogger("vitalctl")
	observability.RegisterMetrics()

	cfg, devices, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vitalctl: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := feed.Orchestrate(ctx, cfg, devices); err != nil {
		log.Error().Err(err).Msg("feed stopped")
		os.Exit(1)
	}
}
