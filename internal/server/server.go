package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/attendly/attendbot/internal/database"
)

// MessageHandler runs one inbound SMS through the conversation pipeline and
// returns the reply text to send back.
type MessageHandler interface {
	HandleMessage(ctx context.Context, fromPhone, bodyText string, receivedAt time.Time) (string, error)
}

type Server struct {
	db      *database.DB
	handler MessageHandler
	httpSrv *http.Server
	port    int
}

// ServerConfig holds configuration for server creation
type ServerConfig struct {
	DB      *database.DB
	Handler MessageHandler
	Port    int
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:      cfg.DB,
		handler: cfg.Handler,
		port:    cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Inbound SMS webhook (Twilio form encoding)
	mux.HandleFunc("POST /sms/incoming", s.handleIncomingSMS)

	// Admin API
	mux.HandleFunc("POST /api/organizations", s.handleCreateOrganization)
	mux.HandleFunc("GET /api/organizations/{id}", s.handleGetOrganization)
	mux.HandleFunc("GET /api/organizations/{id}/absences", s.handleOrganizationAbsences)
	mux.HandleFunc("POST /api/employees", s.handleCreateEmployee)
	mux.HandleFunc("GET /api/employees/{id}", s.handleGetEmployee)
	mux.HandleFunc("GET /api/employees/{id}/absences", s.handleEmployeeAbsences)
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}
