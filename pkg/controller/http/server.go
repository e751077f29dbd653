package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/urlfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/urlfetch/pkg/utils/async"
)

// maxRequestBodySize bounds POST /batches payloads
const maxRequestBodySize = 8 * 1024 * 1024

// config holds internal HTTP server configuration
type config struct {
	addr       string
	apiToken   string
	dispatcher *async.Dispatcher
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithAPIToken requires "Authorization: Bearer <token>" on batch endpoints
func WithAPIToken(token string) Option {
	return func(c *config) {
		c.apiToken = token
	}
}

// WithDispatcher sets the dispatcher running accepted batches
func WithDispatcher(d *async.Dispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	dispatcher *async.Dispatcher
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	batchUC interfaces.BatchUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.dispatcher == nil {
		cfg.dispatcher = async.NewDispatcher()
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	batchHandler := NewBatchHandler(batchUC, cfg.dispatcher)
	router.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.apiToken))
		r.Use(middleware.RequestSize(maxRequestBodySize))
		r.Post("/batches", batchHandler.Create)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		dispatcher: cfg.dispatcher,
	}

	return server, nil
}

// Shutdown stops accepting requests and waits for running batches
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return err
	}
	return s.dispatcher.Wait(ctx)
}
