package domain

// Candidate is a token classified as inactive by the market filter.
// Candidates are ephemeral: produced once per sweep run, never persisted.
type Candidate struct {
	Symbol string // short display symbol, upper-cased
	Mint   string // token mint address (base58)
}
