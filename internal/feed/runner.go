package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/vitalctl/internal/hl7"
	"github.com/danmuck/vitalctl/internal/mllp"
	"github.com/danmuck/vitalctl/internal/observability"
	"github.com/danmuck/vitalctl/internal/sim"
)

// Floor below which intervals are clamped; a zero or runaway-small
// interval must not spin the socket.
const minInterval = 50 * time.Millisecond

// Runner drives one device: step the model, assemble one message,
// deliver it, repeat.
type Runner struct {
	cfg    Config
	dev    DeviceConfig
	device sim.Device

	builder *hl7.Builder
	client  *mllp.Client
	out     io.Writer
}

// NewRunner wires one device to its own builder and, unless Stdout mode
// is on, its own MLLP client.
func NewRunner(cfg Config, dev DeviceConfig) (*Runner, error) {
	device, err := sim.New(dev.Kind, dev.Seed)
	if err != nil {
		return nil, err
	}

	builderCfg := hl7.DefaultBuilderConfig()
	builderCfg.SendingApp = device.SendingApp()

	r := &Runner{
		cfg:     cfg,
		dev:     dev,
		device:  device,
		builder: hl7.NewBuilder(builderCfg),
		out:     cfg.Out,
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if !cfg.Stdout {
		r.client = mllp.NewClient(mllp.ClientConfig{
			Host:      cfg.Host,
			Port:      cfg.Port,
			Timeout:   cfg.Timeout,
			KeepAlive: cfg.KeepAlive,
		})
	}
	return r, nil
}

// Run loops until the context is canceled, the configured message count
// is reached, or a transport error surfaces. The first message goes out
// immediately; later ones follow the interval.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.dev.Interval
	if interval < minInterval {
		interval = minInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if r.client != nil {
		defer func() { _ = r.client.Close() }()
	}

	sent := 0
	for {
		r.device.Step()
		now := hl7.Now()
		observations := r.device.Segments(r.builder, now)
		message := r.builder.Message(r.cfg.PatientID, r.cfg.PatientName, r.dev.DeviceID, observations, now)
		if err := r.deliver(message); err != nil {
			return err
		}
		sent++
		if r.dev.Count > 0 && sent >= r.dev.Count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) deliver(message string) error {
	if r.client == nil {
		_, err := fmt.Fprintln(r.out, message)
		return err
	}

	start := time.Now()
	ack, ok, err := r.client.Send(message)
	observability.RecordSend(r.dev.Kind, ok, err, time.Since(start))
	if err != nil {
		log.Error().Str("device", r.dev.Kind).Err(err).Msg("send failed")
		return err
	}
	if !ok {
		log.Warn().Str("device", r.dev.Kind).Msg("no acknowledgment before deadline")
		return nil
	}
	log.Debug().
		Str("device", r.dev.Kind).
		Str("ack_control_id", hl7.ControlID(ack)).
		Msg("message acknowledged")
	return nil
}
