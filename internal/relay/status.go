package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rjmcf/dungeonchat-go/internal/middleware"
)

// StatusResponse is the JSON body served by the status endpoint
type StatusResponse struct {
	Clients []string `json:"clients"`
}

// StatusServer serves a read-only HTTP view of the relay for operators
type StatusServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewStatusServer builds the status endpoint over the given hub
func NewStatusServer(port int, hub *Hub, logger *slog.Logger) *StatusServer {
	logger = logger.With(slog.String("component", "relay-status"))

	router := mux.NewRouter()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		names := hub.Usernames()
		if names == nil {
			names = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(StatusResponse{Clients: names}); err != nil {
			logger.Warn("writing status response", slog.String("error", err.Error()))
		}
	}).Methods(http.MethodGet)

	return &StatusServer{
		server: &http.Server{
			Addr:         ":" + strconv.Itoa(port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the status router, mainly for tests
func (s *StatusServer) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving status requests
func (s *StatusServer) Start() error {
	s.logger.Info("status endpoint listening", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("status server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the status endpoint
func (s *StatusServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status shutdown error: %w", err)
	}
	return nil
}
