package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/pipeline"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port            int
	Client          backend.Client
	Store           *db.Store // optional persistence, may be nil
	JWT             *config.JWTConfig
	DefaultProvider string
	DefaultModel    string
	UseBrowser      bool
}

// Server hosts the orchestrator behind an HTTP API. Each session gets its own
// pipeline; the presentation layer reads observable state and issues actions,
// nothing more.
type Server struct {
	httpServer *http.Server
	client     backend.Client
	store      *db.Store
	jwtService *JWTService
	validate   *validator.Validate
	cfg        Config

	mu        sync.Mutex
	pipelines map[uuid.UUID]*pipeline.Pipeline
}

// New creates a server instance.
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("a backend client is required")
	}
	if cfg.JWT == nil {
		return nil, fmt.Errorf("a session-token configuration is required")
	}

	s := &Server{
		client:     cfg.Client,
		store:      cfg.Store,
		jwtService: NewJWTService(cfg.JWT),
		validate:   validator.New(),
		cfg:        cfg,
		pipelines:  make(map[uuid.UUID]*pipeline.Pipeline),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)

	// Session-scoped routes require a valid session token.
	mux.Handle("GET /sessions/{id}/state", s.authed(s.handleState))
	mux.Handle("GET /sessions/{id}/providers", s.authed(s.handleListProviders))
	mux.Handle("GET /sessions/{id}/models", s.authed(s.handleListModels))
	mux.Handle("PUT /sessions/{id}/provider", s.authed(s.handleSelectProvider))
	mux.Handle("PUT /sessions/{id}/model", s.authed(s.handleSelectModel))
	mux.Handle("PUT /sessions/{id}/credential", s.authed(s.handleSetCredential))
	mux.Handle("POST /sessions/{id}/credential/test", s.authed(s.handleTestCredential))
	mux.Handle("POST /sessions/{id}/analyze", s.authed(s.handleAnalyze))
	mux.Handle("POST /sessions/{id}/tailor", s.authed(s.handleTailor))
	mux.Handle("POST /sessions/{id}/cover-letter", s.authed(s.handleCoverLetter))
	mux.Handle("POST /sessions/{id}/suggestions", s.authed(s.handleSuggestions))
	mux.Handle("POST /sessions/{id}/generate-all", s.authed(s.handleGenerateAll))
	mux.Handle("PUT /sessions/{id}/overlay/{kind}", s.authed(s.handleSetEdited))
	mux.Handle("POST /sessions/{id}/clear-error", s.authed(s.handleClearError))
	mux.Handle("DELETE /sessions/{id}/results", s.authed(s.handleClearResults))
	mux.Handle("DELETE /sessions/{id}/form", s.authed(s.handleClearForm))
	mux.Handle("GET /sessions/{id}/artifacts", s.authed(s.handleListArtifacts))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.store != nil {
		s.store.Close()
	}
	log.Println("Server stopped")
	return nil
}

// Handler exposes the configured handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// authed wraps a session-scoped handler with token validation and a check
// that the token's session matches the one addressed by the path.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenSession, err := middleware.GetSessionID(r)
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		pathSession, err := uuid.Parse(r.PathValue("id"))
		if err != nil || pathSession != tokenSession {
			s.errorResponse(w, http.StatusForbidden, "Token does not grant access to this session")
			return
		}
		h(w, r)
	})
	return middleware.Auth(s.jwtService.AsTokenValidator())(guarded)
}

// newSession creates and registers a session pipeline with configured defaults.
func (s *Server) newSession(ctx context.Context) *pipeline.Pipeline {
	sess := session.New(s.client)
	if s.cfg.DefaultProvider != "" {
		sess.Registry().SelectProvider(ctx, s.cfg.DefaultProvider)
		if s.cfg.DefaultModel != "" {
			sess.Registry().SelectModel(s.cfg.DefaultModel)
		}
	}
	p := pipeline.New(sess, s.client, s.store)

	s.mu.Lock()
	s.pipelines[sess.ID()] = p
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.CreateSession(ctx, sess.ID()); err != nil {
			log.Printf("Warning: failed to persist session: %v", err)
		}
	}
	return p
}

// sessionPipeline looks up the pipeline for a session ID.
func (s *Server) sessionPipeline(id uuid.UUID) (*pipeline.Pipeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pipelines[id]
	return p, ok
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
