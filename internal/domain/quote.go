package domain

import "encoding/json"

// Quote is a priced, time-bounded swap offer from the aggregator.
// The Raw payload carries the full aggregator response and must be passed
// back unmodified when the swap is executed; quotes are never mutated.
type Quote struct {
	InputMint  string
	OutputMint string
	InAmount   uint64
	OutAmount  uint64

	// Raw is the aggregator's quote response verbatim. The swap endpoint
	// consumes it as the route payload.
	Raw json.RawMessage
}
