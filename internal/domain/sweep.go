package domain

// SweepState is the sweep driver's position in its run.
type SweepState string

const (
	// SweepScanning means candidate discovery is in progress.
	SweepScanning SweepState = "SCANNING"
	// SweepBuying means the driver is iterating candidates and attempting swaps.
	SweepBuying SweepState = "BUYING"
	// SweepExhausted means every candidate was attempted. Reclaim and fee
	// settlement follow the terminal states unconditionally.
	SweepExhausted SweepState = "EXHAUSTED"
	// SweepDepleted means the wallet balance fell below the floor mid-run
	// and remaining candidates were abandoned.
	SweepDepleted SweepState = "DEPLETED"
)

// SweepResult is the only output of a sweep run.
type SweepResult struct {
	SuccessfulBuys       int
	CandidatesConsidered int

	// TerminalState records whether the run exhausted its candidates or
	// stopped early on the balance floor.
	TerminalState SweepState
}

// TokenAccount is a wallet-owned token account as reported by the RPC node.
type TokenAccount struct {
	Address string // token account address (base58)
	Mint    string // mint of the held token
	Amount  uint64 // raw token balance
	Program string // owning token program id
}
