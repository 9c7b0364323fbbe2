package mllp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// State is the client connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// ClientConfig carries the connection parameters for one MLLP sender.
type ClientConfig struct {
	Host      string
	Port      int
	Timeout   time.Duration // connect, write, and ack-read deadline
	KeepAlive bool          // hold the connection open across sends
}

// DefaultClientConfig returns the sender defaults: 10s timeout,
// keep-alive on.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Timeout: 10 * time.Second, KeepAlive: true}
}

// Client owns one MLLP connection. It starts disconnected and dials
// lazily on the first send. Send is synchronous end-to-end; a Client must
// not be used from more than one goroutine.
type Client struct {
	cfg   ClientConfig
	state State
	conn  net.Conn
}

// NewClient constructs a disconnected client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	return &Client{cfg: cfg, state: StateDisconnected}
}

// State reports the current lifecycle state.
func (c *Client) State() State { return c.state }

func (c *Client) connect() error {
	if c.state == StateConnected {
		return nil
	}
	addr := net.JoinHostPort(strings.TrimSpace(c.cfg.Host), strconv.Itoa(c.cfg.Port))
	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("mllp: connect %s: %w", addr, err)
	}
	c.conn = conn
	c.state = StateConnected
	return nil
}

// Send frames and writes one message, then waits up to the configured
// timeout for an acknowledgment. ack is the reply payload with MLLP
// framing stripped when present. ok reports whether an acknowledgment
// arrived; a deadline expiry or a peer close without a reply is a normal
// "no acknowledgment" outcome, not an error. Transport failures close the
// connection before propagating, so the next Send can redial cleanly.
// When keep-alive is off the connection is closed before returning
// regardless of outcome.
func (c *Client) Send(message string) (ack string, ok bool, err error) {
	if err := c.connect(); err != nil {
		return "", false, err
	}
	if !c.cfg.KeepAlive {
		defer func() { _ = c.Close() }()
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))
	if _, err := c.conn.Write(Wrap(message)); err != nil {
		c.teardown()
		return "", false, fmt.Errorf("mllp: write: %w", err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.Timeout))
	reply := make([]byte, 4096)
	n, err := c.conn.Read(reply)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return "", false, nil
		}
		c.teardown()
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("mllp: ack read: %w", err)
	}
	if n == 0 {
		return "", false, nil
	}
	if message, framed := Unwrap(reply[:n]); framed {
		return message, true, nil
	}
	return strings.ToValidUTF8(string(reply[:n]), ""), true, nil
}

// Close releases the connection and resets to disconnected. Safe to call
// repeatedly and while already disconnected.
func (c *Client) Close() error {
	if c.state == StateDisconnected {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.state = StateDisconnected
	return err
}

func (c *Client) teardown() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = StateDisconnected
}
