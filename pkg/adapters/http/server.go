package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/prr/pkg/importer"
	"github.com/aretw0/prr/pkg/network"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 10 << 20

// Engine defines what the API needs from the prr engine.
type Engine interface {
	Execute(ctx context.Context, name string, fn func(*network.Network) error) error
	Import(ctx context.Context, name string, r io.Reader) (importer.Stats, error)
}

// Server holds the handlers of the JSON API.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Version  string
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams attaches the stream manager whose hooks feed the engine, enabling
// /networks/{network}/events.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer exposes the collectors of g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = l
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine, Version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.Logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/networks/{network}", func(r chi.Router) {
		r.Get("/events", s.SubscribeEvents)
		r.Post("/import", s.Import)
		r.Get("/totals", s.GetTotals)

		r.Get("/clients", s.ListClients)
		r.Post("/clients", s.RegisterClient)
		r.Get("/clients/{key}", s.GetClient)
		r.Get("/clients/{key}/communications", s.ClientCommunications)
		r.Get("/clients/{key}/notifications", s.Notifications)
		r.Post("/clients/{key}/notifications/enable", s.EnableNotifications)
		r.Post("/clients/{key}/notifications/disable", s.DisableNotifications)

		r.Get("/terminals", s.ListTerminals)
		r.Post("/terminals", s.RegisterTerminal)
		r.Get("/terminals/{key}", s.GetTerminal)
		r.Post("/terminals/{key}/friends", s.AddFriends)
		r.Delete("/terminals/{key}/friends/{friend}", s.RemoveFriend)
		r.Post("/terminals/{key}/on", s.TurnOn)
		r.Post("/terminals/{key}/off", s.TurnOff)
		r.Post("/terminals/{key}/silence", s.Silence)
		r.Post("/terminals/{key}/text", s.SendText)
		r.Post("/terminals/{key}/calls", s.StartCall)
		r.Post("/terminals/{key}/calls/end", s.EndCall)
		r.Post("/terminals/{key}/payments", s.Pay)

		r.Get("/communications", s.ListCommunications)
		r.Get("/communications/{id}", s.GetCommunication)
	})

	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{App: "prr-http", Version: s.Version})
}
