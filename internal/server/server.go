// Package server provides the HTTP REST API for editing résumé documents.
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

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	store      *store.Store
	jwtService *JWTService

	maxDepth      int
	autosaveQuiet time.Duration
	schemaContent string

	// sessions holds one editing session per open document. Each session
	// carries its own mutex; the document tree is single-writer.
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// Config holds server configuration.
type Config struct {
	Port          int
	DatabaseURL   string
	MaxDepth      int
	AutosaveQuiet time.Duration
	SchemaContent string
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	database, err := store.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		store:         database,
		jwtService:    NewJWTService(jwtConfig),
		maxDepth:      cfg.MaxDepth,
		autosaveQuiet: cfg.AutosaveQuiet,
		schemaContent: cfg.SchemaContent,
		sessions:      make(map[uuid.UUID]*session),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	api := http.NewServeMux()
	api.HandleFunc("POST /documents", s.handleImportDocument)
	api.HandleFunc("GET /documents", s.handleListDocuments)
	api.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	api.HandleFunc("PUT /documents/{id}", s.handleReplaceDocument)
	api.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	api.HandleFunc("GET /documents/{id}/outline", s.handleOutline)
	api.HandleFunc("GET /documents/{id}/context", s.handleContext)
	api.HandleFunc("GET /documents/{id}/queued", s.handleQueued)
	api.HandleFunc("POST /documents/{id}/toggle", s.handleToggle)
	api.HandleFunc("POST /documents/{id}/mark", s.handleMark)
	api.HandleFunc("POST /documents/{id}/reorder", s.handleReorder)
	api.HandleFunc("POST /documents/{id}/rewrite", s.handleRewrite)

	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	mux.Handle("/", auth(api))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	// Flush pending autosaves before closing sessions.
	s.mu.Lock()
	for id, sess := range s.sessions {
		sess.saver.Flush()
		sess.saver.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.store.Close()
	return nil
}

// Handler exposes the configured root handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withLogging logs each request with method, path, and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

// withCORS adds permissive CORS headers for browser-based editors.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
