package domain

// JobAction selects which pipeline a queued job executes.
type JobAction string

const (
	// ActionRun executes the full sweep pipeline: discover, buy, reclaim, fee.
	ActionRun JobAction = "run"
	// ActionBurn executes the reclaim stage alone.
	ActionBurn JobAction = "burn"
)

// Valid reports whether the action names a known pipeline.
func (a JobAction) Valid() bool {
	return a == ActionRun || a == ActionBurn
}

// Job is a queued per-user request. The queue owns a job from creation until
// the worker dequeues it; it is destroyed after execution regardless of
// outcome (at-most-once delivery).
type Job struct {
	UserID     string            `json:"user_id"`
	Action     JobAction         `json:"action"`
	Params     map[string]string `json:"params"`
	EnqueuedAt int64             `json:"enqueued_at"` // Unix timestamp in milliseconds
}
