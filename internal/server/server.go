// Package server is the HTTP shell: router, middleware, lifecycle.
// Feature packages mount their own routes via RegisterRoutes.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/karimnasser/schedbot/internal/db"
	"github.com/karimnasser/schedbot/internal/llm"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server hosts the scheduling assistant's REST and websocket surfaces.
type Server struct {
	cfg         Config
	db          *db.DB
	llmProvider llm.Provider
	llmModel    string
	router      chi.Router
	httpServer  *http.Server
}

// New creates a server. database may be nil when the transcript log is
// disabled.
func New(cfg Config, database *db.DB, llmProvider llm.Provider, llmModel string) *Server {
	s := &Server{
		cfg:         cfg,
		db:          database,
		llmProvider: llmProvider,
		llmModel:    llmModel,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware. No global timeout: the /ws routes hold connections
	// open for the life of a session.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Router returns the chi router for registering feature routes.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection, nil when disabled.
func (s *Server) Database() *db.DB { return s.db }

// LLMProvider returns the LLM provider.
func (s *Server) LLMProvider() llm.Provider { return s.llmProvider }

// LLMModel returns the configured LLM model name.
func (s *Server) LLMModel() string { return s.llmModel }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("schedbot server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
