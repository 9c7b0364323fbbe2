package mllp

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/vitalctl/internal/hl7"
	"github.com/danmuck/vitalctl/internal/observability"
)

// Handler consumes one extracted HL7 message.
type Handler func(message string)

// ServerConfig carries the listener parameters for one MLLP receiver.
type ServerConfig struct {
	Addr        string
	ReadTimeout time.Duration // per-read deadline; zero blocks indefinitely
}

// Server accepts MLLP connections and acknowledges every extracted
// message with an application accept. Each connection is served by its
// own goroutine with its own receive buffer; no state is shared across
// connections.
type Server struct {
	cfg     ServerConfig
	handler Handler
}

// NewServer constructs a server that passes every extracted message to
// handler before acknowledging it. handler may be nil.
func NewServer(cfg ServerConfig, handler Handler) *Server {
	return &Server{cfg: cfg, handler: handler}
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", strings.TrimSpace(s.cfg.Addr))
}

// Serve accepts connections until the context is canceled or the
// listener fails. It owns ln and closes it on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	log.Info().Str("addr", ln.Addr().String()).Msg("mllp server listening")

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

// handleConn owns one connection: accumulate bytes, extract every
// complete frame, acknowledge each extracted message. The loop ends on
// peer close or I/O error; a partially buffered, unterminated frame is
// discarded without error.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	observability.RecordConnectionAccepted()
	log.Info().Str("remote", remote).Msg("mllp client connected")
	defer func() {
		log.Info().Str("remote", remote).Msg("mllp client disconnected")
	}()

	var buf Buffer
	chunk := make([]byte, 4096)
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Feed(chunk[:n])
			for _, message := range buf.ExtractAll() {
				observability.RecordFrameReceived()
				log.Debug().
					Str("remote", remote).
					Str("control_id", hl7.ControlID(message)).
					Int("bytes", len(message)).
					Msg("hl7 message extracted")
				if s.handler != nil {
					s.handler(message)
				}
				if werr := s.acknowledge(conn, message); werr != nil {
					log.Warn().Str("remote", remote).Err(werr).Msg("mllp ack write failed")
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn().Str("remote", remote).Err(err).Msg("mllp read failed")
			}
			if buf.Len() > 0 {
				log.Debug().Str("remote", remote).Int("bytes", buf.Len()).Msg("discarding partial frame")
			}
			return
		}
	}
}

func (s *Server) acknowledge(conn net.Conn, message string) error {
	controlID := hl7.ControlID(message)
	if controlID == "" {
		controlID = "1"
	}
	if _, err := conn.Write(BuildAck(controlID)); err != nil {
		return err
	}
	observability.RecordAckSent()
	return nil
}
