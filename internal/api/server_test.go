package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/logbuf"
	"github.com/DUSTBOT313/DUST-BOT/internal/stats"
)

type stubRunner struct {
	result    *domain.SweepResult
	runErr    error
	reclaimed uint64
	lastUser  string
}

func (r *stubRunner) Run(_ context.Context, userID string) (*domain.SweepResult, error) {
	r.lastUser = userID
	if r.runErr != nil {
		return nil, r.runErr
	}
	return r.result, nil
}

func (r *stubRunner) Reclaim(context.Context) uint64 { return r.reclaimed }

func newTestServer(runner *stubRunner, counters *stats.Counters, logs *logbuf.Buffer) *Server {
	return New(Options{
		Runner:    runner,
		Counters:  counters,
		FeeWallet: "FeeWallet1111111111111111111111111111111111",
		Logs:      logs,
		Logger:    log.New(io.Discard, "", 0),
	})
}

func TestRunBot(t *testing.T) {
	runner := &stubRunner{result: &domain.SweepResult{
		SuccessfulBuys: 3,
		TerminalState:  domain.SweepExhausted,
	}}
	srv := newTestServer(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/run-bot", strings.NewReader(`{"user_id":"u7"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["logs"] != "Completed 3 buys for u7" {
		t.Errorf("logs = %q", body["logs"])
	}
	if runner.lastUser != "u7" {
		t.Errorf("lastUser = %q, want u7", runner.lastUser)
	}
}

func TestRunBotDefaultsUserID(t *testing.T) {
	runner := &stubRunner{result: &domain.SweepResult{TerminalState: domain.SweepExhausted}}
	srv := newTestServer(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/run-bot", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.lastUser != "api" {
		t.Errorf("lastUser = %q, want api", runner.lastUser)
	}
}

func TestRunBotError(t *testing.T) {
	runner := &stubRunner{runErr: errors.New("rpc unreachable")}
	srv := newTestServer(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/run-bot", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRunBotRejectsGet(t *testing.T) {
	srv := newTestServer(&stubRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/run-bot", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestBurn(t *testing.T) {
	runner := &stubRunner{reclaimed: 4_078_560}
	srv := newTestServer(runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/burn", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]uint64
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["reclaimed"] != 4_078_560 {
		t.Errorf("reclaimed = %d, want 4078560", body["reclaimed"])
	}
}

func TestStatus(t *testing.T) {
	counters := stats.New()
	counters.AddBuys(5)
	counters.AddFee(12345)
	counters.IncSweepRuns()

	srv := newTestServer(&stubRunner{}, counters, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SuccessfulBuys != 5 || body.TotalFeeLamports != 12345 || body.SweepRuns != 1 {
		t.Errorf("status = %+v", body)
	}
	if body.FeeWallet == "" {
		t.Error("fee_wallet missing")
	}
}

func TestLogs(t *testing.T) {
	logs := logbuf.New(10)
	logger := log.New(logs, "", 0)
	logger.Printf("swap submitted")
	logger.Printf("burn batch sent")

	srv := newTestServer(&stubRunner{}, nil, logs)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	var body map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body["logs"]) != 2 || body["logs"][1] != "burn batch sent" {
		t.Errorf("logs = %v", body["logs"])
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}
