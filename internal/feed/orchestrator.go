package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoDevices is returned when orchestration is requested with an empty
// device list.
var ErrNoDevices = errors.New("feed: no devices configured")

// Orchestrate runs every configured device concurrently and blocks until
// all runners stop. The first runner error, if any, is returned after
// the remaining runners have wound down on context cancellation.
func Orchestrate(ctx context.Context, cfg Config, devices []DeviceConfig) error {
	if len(devices) == 0 {
		return ErrNoDevices
	}

	runners := make([]*Runner, 0, len(devices))
	for _, dev := range devices {
		r, err := NewRunner(cfg, dev)
		if err != nil {
			return err
		}
		runners = append(runners, r)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(runners))
	for _, r := range runners {
		wg.Add(1)
		go func(r *Runner) {
			defer wg.Done()
			log.Info().
				Str("device", r.dev.Kind).
				Str("device_id", r.dev.DeviceID).
				Dur("interval", r.dev.Interval).
				Msg("device feed started")
			if err := r.Run(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", r.dev.Kind, err)
				cancel()
			}
			log.Info().Str("device", r.dev.Kind).Msg("device feed stopped")
		}(r)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}
