// Package server exposes the account, chat-history and AI-query HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arya/nyaya/internal/chat"
	"github.com/arya/nyaya/internal/logging"
	"github.com/arya/nyaya/internal/provider"
)

// Generator is the slice of the provider client the handlers need.
type Generator interface {
	Query(ctx context.Context, question string) (*provider.Answer, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Server provides the HTTP API over the chat manager and the AI provider.
type Server struct {
	chats *chat.Manager
	ai    Generator
	mux   *http.ServeMux
	addr  string
	log   *logging.Logger
}

// New creates a Server with its routes registered.
func New(chats *chat.Manager, ai Generator, addr string) *Server {
	s := &Server{
		chats: chats,
		ai:    ai,
		mux:   http.NewServeMux(),
		addr:  addr,
		log:   logging.New("server"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /signup", s.handleSignup)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /chats", s.handleListChats)
	s.mux.HandleFunc("POST /chats/new", s.handleNewChat)
	s.mux.HandleFunc("GET /chats/{id}", s.handleGetChat)
	s.mux.HandleFunc("DELETE /chats/{id}", s.handleDeleteChat)
	s.mux.HandleFunc("POST /query", s.handleQuery)
	s.mux.HandleFunc("POST /translate", s.handleTranslate)
}

// Middleware for CORS
func CORS(next http.Handler) http.Handler {
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

// Middleware for JSON content type
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestLog tags every request with an id and logs method, path and
// duration.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		next.ServeHTTP(w, r)
		s.log.WithRequest(id).TimedEvent("request", start, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	})
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.requestLog(CORS(JSON(s.mux)))
}

// Serve starts the server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", map[string]any{"addr": s.addr})
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
