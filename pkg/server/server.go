// Package server exposes the planning loop over HTTP: a single SSE endpoint
// that streams progress events, plus a health probe.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dayweave/dayweave/pkg/event"
	"github.com/dayweave/dayweave/pkg/plan"
	"github.com/dayweave/dayweave/pkg/planner"
)

const maxRequestBody = 64 << 10

// Server routes planning requests to a shared Planner.
type Server struct {
	planner        *planner.Planner
	logger         *slog.Logger
	allowedOrigins []string
	heartbeat      time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins enables CORS for the given origins. "*" allows any.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithHeartbeat sets the SSE keep-alive interval. Zero disables it.
func WithHeartbeat(interval time.Duration) Option {
	return func(s *Server) { s.heartbeat = interval }
}

// New constructs a Server around a Planner.
func New(p *planner.Planner, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		planner:   p,
		logger:    logger,
		heartbeat: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/plan", s.handlePlan)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.cors(mux)
}

// planRequest is the POST /api/plan body.
type planRequest struct {
	Prompt   string       `json:"prompt"`
	Location string       `json:"location,omitempty"`
	Coords   *plan.Coords `json:"coords,omitempty"`
}

// handlePlan validates the request, then relays the run's event stream as
// SSE. Validation failures are plain HTTP errors; anything after the stream
// starts is reported in-band as an error event.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		s.writeError(w, http.StatusBadRequest, "prompt must not be empty")
		return
	}

	ctx := r.Context()
	events, err := s.planner.Run(ctx, planner.Request{
		Prompt:   req.Prompt,
		Location: req.Location,
		Coords:   req.Coords,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream := event.NewStream(w)
	stream.SetHeartbeat(s.heartbeat)
	if err := stream.Relay(ctx, events); err != nil {
		// The client is gone; the planner notices via ctx.
		s.logger.Debug("stream relay ended", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// cors answers preflight requests and stamps the response headers when the
// origin is allowed.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
