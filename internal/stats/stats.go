// Package stats holds the process-wide sweep counters.
//
// The counters are written by whichever path runs the pipeline (queue worker
// or a synchronous API call) and read by status reporting. Both paths may run
// at the same time, so all cells are atomics; the two entry points are not
// serialized against each other beyond that.
package stats

import "sync/atomic"

// Counters is the shared mutable state produced by sweep runs.
// A single instance is created at startup and injected into the worker path,
// the synchronous API path and the status handlers.
type Counters struct {
	successfulBuys   atomic.Int64
	totalFeeLamports atomic.Uint64
	sweepRuns        atomic.Int64
}

// New creates zeroed counters. Counters live for the process lifetime and are
// never persisted; a restart loses them.
func New() *Counters {
	return &Counters{}
}

// AddBuys records successful swap submissions from one run.
func (c *Counters) AddBuys(n int) {
	c.successfulBuys.Add(int64(n))
}

// SuccessfulBuys returns the total successful swap submissions.
func (c *Counters) SuccessfulBuys() int64 {
	return c.successfulBuys.Load()
}

// AddFee records an accepted fee transfer.
func (c *Counters) AddFee(lamports uint64) {
	c.totalFeeLamports.Add(lamports)
}

// TotalFeeLamports returns the running fee total in lamports.
func (c *Counters) TotalFeeLamports() uint64 {
	return c.totalFeeLamports.Load()
}

// IncSweepRuns records a completed sweep run.
func (c *Counters) IncSweepRuns() {
	c.sweepRuns.Add(1)
}

// SweepRuns returns the number of completed sweep runs.
func (c *Counters) SweepRuns() int64 {
	return c.sweepRuns.Load()
}
