// Package api exposes the HTTP control surface: trigger routes, status,
// recent logs, health and metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/logbuf"
	"github.com/DUSTBOT313/DUST-BOT/internal/stats"
)

// Runner executes sweeps and reclaims on behalf of the trigger routes.
type Runner interface {
	Run(ctx context.Context, userID string) (*domain.SweepResult, error)
	Reclaim(ctx context.Context) uint64
}

// Server wires the HTTP handlers to the sweep engine and shared state.
type Server struct {
	runner    Runner
	counters  *stats.Counters
	feeWallet string
	logs      *logbuf.Buffer
	wsHandler http.Handler // optional
	metrics   http.Handler // optional
	logger    *log.Logger
}

// Options configures a Server.
type Options struct {
	Runner    Runner
	Counters  *stats.Counters
	FeeWallet string
	Logs      *logbuf.Buffer
	WSHandler http.Handler
	Metrics   http.Handler
	Logger    *log.Logger
}

// New creates the API server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logs := opts.Logs
	if logs == nil {
		logs = logbuf.New(0)
	}
	return &Server{
		runner:    opts.Runner,
		counters:  opts.Counters,
		feeWallet: opts.FeeWallet,
		logs:      logs,
		wsHandler: opts.WSHandler,
		metrics:   opts.Metrics,
		logger:    logger,
	}
}

// Routes returns the request mux for the server.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/run-bot", s.handleRunBot)
	mux.HandleFunc("/api/burn", s.handleBurn)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/logs", s.handleLogs)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	if s.wsHandler != nil {
		mux.Handle("/ws", s.wsHandler)
	}
	return mux
}

type runRequest struct {
	UserID string `json:"user_id"`
}

// handleRunBot runs the full sweep synchronously and reports the buy count.
func (s *Server) handleRunBot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req runRequest
	if r.Body != nil {
		// Body is optional; a missing or empty one means an anonymous trigger.
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.UserID == "" {
		req.UserID = "api"
	}

	result, err := s.runner.Run(r.Context(), req.UserID)
	if err != nil {
		s.logger.Printf("sweep for %s failed: %v", req.UserID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"logs": fmt.Sprintf("Completed %d buys for %s", result.SuccessfulBuys, req.UserID),
	})
}

// handleBurn runs the reclaim stage alone.
func (s *Server) handleBurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reclaimed := s.runner.Reclaim(r.Context())
	writeJSON(w, http.StatusOK, map[string]uint64{"reclaimed": reclaimed})
}

// statusResponse is the JSON shape of /api/status.
type statusResponse struct {
	SuccessfulBuys   int64  `json:"successful_buys"`
	TotalFeeLamports uint64 `json:"total_fee_lamports"`
	SweepRuns        int64  `json:"sweep_runs"`
	FeeWallet        string `json:"fee_wallet,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := statusResponse{FeeWallet: s.feeWallet}
	if s.counters != nil {
		resp.SuccessfulBuys = s.counters.SuccessfulBuys()
		resp.TotalFeeLamports = s.counters.TotalFeeLamports()
		resp.SweepRuns = s.counters.SweepRuns()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"logs": s.logs.Lines()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
