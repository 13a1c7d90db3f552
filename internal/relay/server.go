package relay

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ServerConfig holds configuration for the relay server
type ServerConfig struct {
	Port int
	// PortRetries is how many successive ports to try when the first bind
	// fails, for running several relays on one machine.
	PortRetries int
	// StatusPort serves the HTTP status endpoint; 0 disables it
	StatusPort int
}

// DefaultServerConfig returns sensible defaults for the relay server
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:        14001,
		PortRetries: 4,
		StatusPort:  0,
	}
}

// Server accepts relay clients and fans their lines out through a Hub
type Server struct {
	config   ServerConfig
	hub      *Hub
	logger   *slog.Logger
	listener net.Listener

	mu     sync.Mutex
	closed bool
}

// NewServer creates a relay server
func NewServer(config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		config: config,
		hub:    NewHub(logger),
		logger: logger.With(slog.String("component", "relay-server")),
	}
}

// Hub exposes the server's hub, used by the HTTP status endpoint
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen binds the listening socket, trying successive ports when the
// configured one is unavailable.
func (s *Server) Listen() error {
	var err error
	for i := 0; i <= s.config.PortRetries; i++ {
		port := s.config.Port + i
		var ln net.Listener
		ln, err = net.Listen("tcp", ":"+strconv.Itoa(port))
		if err == nil {
			s.listener = ln
			s.logger.Info("relay listening", slog.Int("port", port))
			return nil
		}
	}
	return fmt.Errorf("binding relay listener: %w", err)
}

// Addr returns the bound listen address; empty before Listen
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve accepts clients until the context is cancelled or the listener closed
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			return fmt.Errorf("accepting client: %w", err)
		}
		go s.handleClient(conn)
	}
}

// handleClient owns one client connection: username handshake, then a read
// loop forwarding every line through the hub.
func (s *Server) handleClient(conn net.Conn) {
	id := uuid.New()
	logger := s.logger.With(slog.String("client_id", id.String()))
	logger.Info("connection accepted", slog.String("remote", conn.RemoteAddr().String()))

	scanner := bufio.NewScanner(conn)

	// The first line a client sends is its username
	if !scanner.Scan() {
		_ = conn.Close()
		return
	}
	c := &client{id: id, username: scanner.Text(), conn: conn}

	if err := s.hub.register(c); err != nil {
		c.send("Username taken")
		logger.Info("client rejected", slog.String("username", c.username))
		_ = conn.Close()
		return
	}
	s.hub.Broadcast(c.username + EnteredChatSuffix)

	for scanner.Scan() {
		line := scanner.Text()
		if line == LeaveDirective {
			break
		}
		s.hub.forward(c, line)
	}

	s.hub.unregister(c)
	s.hub.Broadcast(c.username + LeftChatSuffix)
	logger.Info("client disconnected", slog.String("username", c.username))
	if err := conn.Close(); err != nil {
		logger.Warn("closing client connection", slog.String("error", err.Error()))
	}
}

// Shutdown stops accepting and disconnects every client. Safe to call from
// any goroutine; repeated calls are no-ops.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.logger.Info("relay shutting down")
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn("closing listener", slog.String("error", err.Error()))
		}
	}
	s.hub.closeAll()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
