// vitalsrv is a test MLLP receiver: it accepts HL7 v2.5 feeds, logs
// each message, and acknowledges everything with AA. An HTTP side
// channel exposes health probes and Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/vitalctl/internal/admin"
	"github.com/danmuck/vitalctl/internal/config"
	"github.com/danmuck/vitalctl/internal/hl7"
	"github.com/danmuck/vitalctl/internal/mllp"
	"github.com/danmuck/vitalctl/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "TOML config for the receiver")
	flag.Parse()

	observability.InitLogger("vitalsrv")
	observability.RegisterMetrics()

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vitalsrv: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("receiver stopped")
		os.Exit(1)
	}
}

func run(cfg config.ServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := mllp.NewServer(mllp.ServerConfig{
		Addr:        cfg.ListenAddr,
		ReadTimeout: cfg.ReadTimeout(),
	}, handleMessage)

	ln, err := srv.Listen()
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("mllp listener up")

	mllpErr := make(chan error, 1)
	go func() { mllpErr <- srv.Serve(ctx, ln) }()

	adminErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin listener up")
		adminErr <- admin.New(cfg.AdminAddr, cfg.CorsOrigins).Run()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		return nil
	case err := <-mllpErr:
		return err
	case err := <-adminErr:
		return err
	}
}

func handleMessage(message string) {
	log.Info().
		Str("control_id", hl7.ControlID(message)).
		Int("bytes", len(message)).
		Msg("message received")
}
