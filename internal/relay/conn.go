package relay

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/rjmcf/dungeonchat-go/internal/model"
)

// Conn is a client connection to the relay. Reads are expected from a single
// goroutine; writes may come from several (the session loop and the shutdown
// coordinator share it), so every write is serialized under one mutex.
type Conn struct {
	netConn net.Conn
	scanner *bufio.Scanner

	mu       sync.Mutex // guards writes and the closed flag
	closed   bool
	closeErr error
	once     sync.Once

	logger *slog.Logger
}

// NewConn wraps an established network connection
func NewConn(netConn net.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		netConn: netConn,
		scanner: bufio.NewScanner(netConn),
		logger:  logger.With(slog.String("component", "relay-conn")),
	}
}

// Dial connects to the relay at address:port and introduces itself with the
// given username, which the relay expects as the first line.
func Dial(address string, port int, username string, logger *slog.Logger) (*Conn, error) {
	netConn, err := net.Dial("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("connecting to relay: %w", err)
	}

	c := NewConn(netConn, logger)
	if err := c.Send(username); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("sending username: %w", err)
	}

	c.logger.Info("connected to relay",
		slog.String("address", address),
		slog.Int("port", port),
		slog.String("username", username),
	)
	return c, nil
}

// ReadLine blocks until the next relay line arrives. It returns io.EOF on a
// clean disconnect and model.ErrConnClosed after a local Close.
func (c *Conn) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return c.scanner.Text(), nil
	}
	if c.IsClosed() {
		return "", model.ErrConnClosed
	}
	if err := c.scanner.Err(); err != nil {
		return "", fmt.Errorf("reading relay line: %w", err)
	}
	return "", io.EOF
}

// Send writes one raw line to the relay
func (c *Conn) Send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendLocked(line)
}

func (c *Conn) sendLocked(line string) error {
	if c.closed {
		return model.ErrConnClosed
	}
	if _, err := fmt.Fprintf(c.netConn, "%s\n", line); err != nil {
		return fmt.Errorf("writing relay line: %w", err)
	}
	return nil
}

// Broadcast sends a line visible to everyone on the relay
func (c *Conn) Broadcast(text string) error {
	return c.Send(text)
}

// Whisper sends text privately to one recipient. Multi-line payloads are
// split and each physical line individually addressed; the lines go out under
// a single lock so another writer cannot interleave mid-reply.
func (c *Conn) Whisper(username, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		if err := c.sendLocked(WhisperPrefix + username + " " + line); err != nil {
			return err
		}
	}
	return nil
}

// IsClosed reports whether Close has been called
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close tears the connection down. It is safe to call from any goroutine and
// repeated calls are no-ops.
func (c *Conn) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.closeErr = c.netConn.Close()
		if c.closeErr != nil {
			c.logger.Warn("closing relay connection", slog.String("error", c.closeErr.Error()))
		}
	})
	return c.closeErr
}
