package relay

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rjmcf/dungeonchat-go/internal/model"
)

// client is one connected relay participant, server side
type client struct {
	id       uuid.UUID
	username string
	conn     net.Conn

	writeMu sync.Mutex // serializes fan-out writes to this connection
}

func (c *client) send(line string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, _ = fmt.Fprintf(c.conn, "%s\n", line)
}

// Hub tracks connected clients and routes lines between them
type Hub struct {
	mu      sync.Mutex
	clients []*client
	logger  *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger.With(slog.String("component", "relay-hub"))}
}

// register adds a client, rejecting usernames already in use (case-sensitive)
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, other := range h.clients {
		if other.username == c.username {
			return model.ErrUsernameTaken
		}
	}
	h.clients = append(h.clients, c)
	return nil
}

// unregister removes a client if present
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, other := range h.clients {
		if other == c {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			return
		}
	}
}

// Broadcast sends a bare line to every connected client
func (h *Hub) Broadcast(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.send(line)
	}
}

// forward routes one client-authored line. A line of the form
// `@<recipient> <text>` is delivered only to the recipient, decorated as
// `(<sender>) <text>`. Recipient resolution takes the longest active username
// that matches, so "Anna" wins over "Ann". Anything unresolved, whisper-shaped
// or not, is fanned out to everyone as `[<sender>] <text>`.
func (h *Hub) forward(sender *client, line string) {
	if strings.HasPrefix(line, WhisperPrefix) {
		if recipient, text, ok := h.resolveWhisper(line[len(WhisperPrefix):]); ok {
			recipient.send("(" + sender.username + ") " + text)
			return
		}
	}
	h.Broadcast("[" + sender.username + "] " + line)
}

// resolveWhisper finds the addressed client for the part of a whisper line
// after the @, preferring the longest matching username.
func (h *Hub) resolveWhisper(rest string) (*client, string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var match *client
	for _, c := range h.clients {
		if !strings.HasPrefix(rest, c.username+" ") {
			continue
		}
		if match == nil || len(c.username) > len(match.username) {
			match = c
		}
	}
	if match == nil {
		return nil, "", false
	}
	return match, rest[len(match.username)+1:], true
}

// Usernames returns the usernames of all connected clients
func (h *Hub) Usernames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.clients))
	for _, c := range h.clients {
		names = append(names, c.username)
	}
	return names
}

// closeAll disconnects every client, unblocking their read loops
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if err := c.conn.Close(); err != nil {
			h.logger.Warn("closing client connection",
				slog.String("client_id", c.id.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}
