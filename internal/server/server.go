// Package server exposes the turn-based chat surface the UI talks to: create
// a session, post a message, get back the assistant reply with parsed gift
// sections and the tool-call trace.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/birthdai/concierge/internal/agent/graph"
)

type Server struct {
	router   *mux.Router
	runner   graph.Runner
	sessions *SessionStore
}

func New(runner graph.Runner) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		runner:   runner,
		sessions: NewSessionStore(),
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/sessions/{sessionID}/messages", s.handlePostMessage).Methods(http.MethodPost)
}
