package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/thromer/pc-boxscores/internal/game"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

// Runner is the part of the pipeline the server triggers
type Runner interface {
	ProcessArchived(ctx context.Context, key string) ([]string, error)
	Discover(ctx context.Context, opts pipeline.DiscoverOptions) (*pipeline.DiscoverResult, error)
	ArchiveGames(ctx context.Context, games []*game.Game) ([]pipeline.ArchiveResult, error)
}

// Options configures the HTTP server
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server is the HTTP front end of the pipeline
type Server struct {
	server  *http.Server
	handler *Handler
}

// New creates a server. runner may be nil, in which case only the analyze,
// health and metrics routes do useful work.
func New(opts Options, runner Runner) *Server {
	handler := NewHandler(runner, opts.MaxBodyBytes)

	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      NewRouter(handler),
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
}

// NewRouter wires the routes and middleware around handler
func NewRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", handler.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", handler.Metrics).Methods(http.MethodGet)
	router.HandleFunc("/analyze", handler.Analyze).Methods(http.MethodPost)
	router.HandleFunc("/boxscores/{key}/process", handler.ProcessArchived).Methods(http.MethodPost)
	router.HandleFunc("/discover", handler.Discover).Methods(http.MethodPost)

	return router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
