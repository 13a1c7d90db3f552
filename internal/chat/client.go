package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Transport is the client's view of the relay connection
type Transport interface {
	ReadLine() (string, error)
	Send(line string) error
	Close() error
}

// Client is a plain interactive chat participant: local input lines go to the
// relay, relay lines go to local output.
type Client struct {
	transport Transport
	in        io.Reader
	out       io.Writer
	logger    *slog.Logger
}

// LeaveDirective is the local input line that ends the chat session
const LeaveDirective = "LEAVE"

// NewClient creates a chat client over the given transport and local streams
func NewClient(transport Transport, in io.Reader, out io.Writer, logger *slog.Logger) *Client {
	return &Client{
		transport: transport,
		in:        in,
		out:       out,
		logger:    logger.With(slog.String("component", "chat-client")),
	}
}

// ReadUsername prompts on the local streams until a valid username (non-empty,
// no spaces) is entered.
func ReadUsername(in io.Reader, out io.Writer) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, "Enter a username: "); err != nil {
			return "", err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading username: %w", err)
			}
			return "", io.EOF
		}
		username := scanner.Text()
		switch {
		case username == "":
			continue
		case strings.Contains(username, " "):
			if _, err := fmt.Fprintln(out, "No spaces allowed"); err != nil {
				return "", err
			}
		default:
			return username, nil
		}
	}
}

// Run pumps lines both ways until the relay disconnects or the local user
// leaves. It owns the transport and closes it on return.
func (c *Client) Run(ctx context.Context) error {
	defer func() { _ = c.transport.Close() }()

	// Local input pump: every non-empty line goes to the relay as-is. The
	// leave directive is forwarded too (the relay disconnects us) and ends
	// the local loop.
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if err := c.transport.Send(line); err != nil {
				c.logger.Warn("send failed", slog.String("error", err.Error()))
				return
			}
			if line == LeaveDirective {
				_ = c.transport.Close()
				return
			}
		}
	}()

	for {
		line, err := c.transport.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return fmt.Errorf("writing to console: %w", err)
		}
	}
}
