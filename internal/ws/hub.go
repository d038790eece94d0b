// Package ws broadcasts job lifecycle events to dashboard WebSocket clients.
package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// Event is a single broadcast frame.
type Event struct {
	Type   string `json:"type"` // "snapshot", "job_started" or "job_finished"
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action,omitempty"`
	// Outcome is set on job_finished frames: "ok", "error" or "invalid".
	Outcome string `json:"outcome,omitempty"`
	Ts      int64  `json:"ts"`

	// Snapshot fields, populated on connect.
	SuccessfulBuys   int64  `json:"successful_buys,omitempty"`
	TotalFeeLamports uint64 `json:"total_fee_lamports,omitempty"`
	SweepRuns        int64  `json:"sweep_runs,omitempty"`
}

// Snapshot supplies the current counter values for a freshly connected client.
type Snapshot func() (buys int64, feeLamports uint64, runs int64)

// Hub tracks connected clients and fans events out to all of them. It
// implements the worker's event sink. A single writer goroutine keeps
// frames ordered and keeps broadcasts from blocking job execution.
type Hub struct {
	mu       sync.Mutex
	writeMu  sync.Mutex
	clients  map[*websocket.Conn]bool
	snapshot Snapshot
	logger   *log.Logger

	events chan Event
	done   chan struct{}

	upgrader websocket.Upgrader
}

// NewHub creates a hub. snapshot may be nil.
func NewHub(snapshot Snapshot, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		clients:  make(map[*websocket.Conn]bool),
		snapshot: snapshot,
		logger:   logger,
		events:   make(chan Event, 256),
		done:     make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	go h.writeLoop()
	return h
}

func (h *Hub) writeLoop() {
	for {
		select {
		case ev := <-h.events:
			h.mu.Lock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for c := range h.clients {
				conns = append(conns, c)
			}
			h.mu.Unlock()
			for _, c := range conns {
				h.send(c, ev)
			}
		case <-h.done:
			return
		}
	}
}

// ServeHTTP upgrades the request and registers the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}
	h.add(conn)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Printf("websocket client connected, %d total", n)

	if h.snapshot != nil {
		buys, fee, runs := h.snapshot()
		h.send(conn, Event{
			Type:             "snapshot",
			Ts:               time.Now().UnixMilli(),
			SuccessfulBuys:   buys,
			TotalFeeLamports: fee,
			SweepRuns:        runs,
		})
	}

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	conn.Close()
	h.logger.Printf("websocket client disconnected, %d total", n)
}

// JobStarted broadcasts a job_started frame.
func (h *Hub) JobStarted(job *domain.Job) {
	h.broadcast(Event{
		Type:   "job_started",
		UserID: job.UserID,
		Action: string(job.Action),
		Ts:     time.Now().UnixMilli(),
	})
}

// JobFinished broadcasts a job_finished frame.
func (h *Hub) JobFinished(job *domain.Job, outcome string) {
	h.broadcast(Event{
		Type:    "job_finished",
		UserID:  job.UserID,
		Action:  string(job.Action),
		Outcome: outcome,
		Ts:      time.Now().UnixMilli(),
	})
}

func (h *Hub) broadcast(ev Event) {
	select {
	case h.events <- ev:
	default:
		// A full buffer means clients are not keeping up; dropping a frame
		// is preferable to stalling the worker.
		h.logger.Printf("websocket event dropped, buffer full")
	}
}

func (h *Hub) send(conn *websocket.Conn, ev Event) {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Printf("websocket write failed: %v", err)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close stops the writer and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}
