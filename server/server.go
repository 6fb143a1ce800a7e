package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/admesh-io/admesh/agent"
	"github.com/admesh-io/admesh/bus"
	"github.com/admesh-io/admesh/connector"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/registry"
)

// QueryRequest is the POST /v1/query payload.
type QueryRequest struct {
	Query         string         `json:"query"`
	Collaborative bool           `json:"collaborative,omitempty"`
	MaxMessages   int            `json:"maxMessages,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Aggregator, when set, fills empty query contexts with fresh campaign
	// snapshots before routing.
	Aggregator *connector.Aggregator

	Logger logging.Logger
}

// Server serves the mesh's HTTP API.
type Server struct {
	router     *agent.Router
	registry   *registry.Registry
	bus        *bus.Bus
	aggregator *connector.Aggregator
	logger     logging.Logger
	httpSrv    *http.Server
	boundAddr  string
}

// New creates a Server over the given router, registry and bus.
func New(router *agent.Router, reg *registry.Registry, b *bus.Bus, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:         ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		Logger:       logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		router:     router,
		registry:   reg,
		bus:        b,
		aggregator: opts.Aggregator,
		logger:     opts.Logger,
	}
	s.httpSrv = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the server's route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/query", requireMethod(http.MethodPost, s.handleQuery))
	mux.HandleFunc("/v1/agents", requireMethod(http.MethodGet, s.handleAgents))
	mux.HandleFunc("/v1/messages", requireMethod(http.MethodGet, s.handleMessages))
	mux.HandleFunc("/healthz", requireMethod(http.MethodGet, s.handleHealth))
	return mux
}

// requireMethod emulates Go 1.22 ServeMux method patterns on Go 1.21: the
// handler runs only for the given method (GET also matches HEAD); other
// methods get 405 with an Allow header.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method && !(method == http.MethodGet && r.Method == http.MethodHead) {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Start begins serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("server listen: %w", err)
	}
	s.boundAddr = listener.Addr().String()
	s.logger.Info("http server listening", "addr", s.boundAddr)

	if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Addr returns the bound listen address, useful when Addr was ":0".
func (s *Server) Addr() string { return s.boundAddr }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	qc := &core.QueryContext{
		Collaborative: req.Collaborative,
		MaxMessages:   req.MaxMessages,
		Extra:         req.Context,
	}
	if s.aggregator != nil {
		if err := s.aggregator.Enrich(r.Context(), qc); err != nil {
			s.logger.Warn("connector enrichment failed, routing with caller data", "error", err)
		}
	}

	resp, err := s.router.Route(r.Context(), req.Query, qc)
	if err != nil {
		status := http.StatusInternalServerError
		var nferr *core.AgentNotFoundError
		if errors.As(err, &nferr) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.registry.List()})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	filter := core.MessageFilter{
		SessionID: r.URL.Query().Get("sessionId"),
		AgentID:   r.URL.Query().Get("agentId"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}
	msgs, err := s.bus.GetMessages(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
