package queue

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/observability"
)

// Pipeline is what the worker executes per job: the full sweep for "run",
// the reclaim stage alone for "burn".
type Pipeline interface {
	Run(ctx context.Context, userID string) (*domain.SweepResult, error)
	Reclaim(ctx context.Context) uint64
}

// EventSink receives job lifecycle notifications, e.g. for the dashboard
// WebSocket feed. Implementations must not block.
type EventSink interface {
	JobStarted(job *domain.Job)
	JobFinished(job *domain.Job, outcome string)
}

// Worker is the single background consumer of the job queue. Exactly one job
// is in flight at any instant process-wide; queued jobs execute serially in
// FIFO order of enqueue time.
type Worker struct {
	queue    Queue
	pipeline Pipeline
	events   EventSink
	metrics  *observability.Metrics
	logger   *log.Logger
	wait     time.Duration

	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	Queue    Queue
	Pipeline Pipeline
	Events   EventSink              // optional
	Metrics  *observability.Metrics // optional
	Logger   *log.Logger
	Wait     time.Duration // bounded dequeue wait, default DefaultWait
}

// NewWorker creates the queue worker.
func NewWorker(opts WorkerOptions) *Worker {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	wait := opts.Wait
	if wait == 0 {
		wait = DefaultWait
	}
	return &Worker{
		queue:    opts.Queue,
		pipeline: opts.Pipeline,
		events:   opts.Events,
		metrics:  opts.Metrics,
		logger:   logger,
		wait:     wait,
		done:     make(chan struct{}),
	}
}

// Start launches the consume loop in a background goroutine.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		go w.loop(ctx)
	})
}

// Close stops the worker, draining first: an in-flight job runs to
// completion before Close returns. Queued jobs stay in the durable list.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		if w.cancel == nil {
			close(w.done)
			return
		}
		w.cancel()
		<-w.done
	})
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	w.logger.Printf("queue worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("queue worker stopped")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, w.wait)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Printf("queue worker stopped")
				return
			}
			w.logger.Printf("dequeue failed: %v", err)
			continue
		}

		// The job is already popped: execute it under a fresh context so a
		// shutdown drains the job instead of abandoning it half-done.
		w.execute(context.Background(), job)
	}
}

func (w *Worker) execute(ctx context.Context, job *domain.Job) {
	w.logger.Printf("processing %s for %s", job.Action, job.UserID)
	if w.events != nil {
		w.events.JobStarted(job)
	}

	outcome := "ok"
	switch job.Action {
	case domain.ActionRun:
		if _, err := w.pipeline.Run(ctx, job.UserID); err != nil {
			outcome = "error"
			w.logger.Printf("run job for %s failed: %v", job.UserID, err)
		}
	case domain.ActionBurn:
		w.pipeline.Reclaim(ctx)
	default:
		outcome = "invalid"
		w.logger.Printf("unknown action %q for %s", job.Action, job.UserID)
	}

	if w.metrics != nil {
		w.metrics.JobsProcessed.WithLabelValues(string(job.Action), outcome).Inc()
	}
	if w.events != nil {
		w.events.JobFinished(job, outcome)
	}
	w.logger.Printf("processed %s for %s (%s)", job.Action, job.UserID, outcome)
}
