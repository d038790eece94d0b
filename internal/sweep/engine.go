// Package sweep implements the dust-sweep orchestration engine.
// A run discovers inactive tokens, drives repeated swap attempts under
// balance and rate constraints, reclaims rent from token accounts and
// settles the operator fee.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/observability"
	"github.com/DUSTBOT313/DUST-BOT/internal/solana"
	"github.com/DUSTBOT313/DUST-BOT/internal/soltx"
	"github.com/DUSTBOT313/DUST-BOT/internal/stats"
	"github.com/DUSTBOT313/DUST-BOT/internal/wallet"
)

// Default sweep parameters.
const (
	DefaultVolumeThreshold = 100
	DefaultSwapLamports    = 100
	DefaultBalanceFloor    = 200 // lamports, 0.0000002 SOL
	DefaultCandidateDelay  = 1 * time.Second
	DefaultBatchSize       = 10
	DefaultMaxDustAmount   = 1_000_000 // raw token units considered negligible
	DefaultFeeFraction     = 0.10
)

// TokenAccountRentLamports is the rent-exempt deposit refunded when a token
// account is closed.
const TokenAccountRentLamports = 2_039_280

// Discovery produces the candidate set for a sweep run.
type Discovery interface {
	DiscoverInactive(ctx context.Context, threshold float64) []domain.Candidate
}

// Aggregator provides quote and swap-build access to the external router.
type Aggregator interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64) (*domain.Quote, error)
	BuildSwap(ctx context.Context, quote *domain.Quote, userPublicKey string) ([]byte, error)
}

// BurnService is the optional delegated-reclaim API.
type BurnService interface {
	Burn(ctx context.Context, accounts []string) (uint64, error)
}

// Engine coordinates the sweep pipeline:
// discovery → buy loop → reclaim → fee settlement.
type Engine struct {
	discovery   Discovery
	aggregator  Aggregator
	rpc         solana.RPCClient
	wallet      *wallet.Wallet
	burnService BurnService
	counters    *stats.Counters
	metrics     *observability.Metrics
	logger      *log.Logger

	volumeThreshold float64
	swapLamports    uint64
	balanceFloor    uint64
	candidateDelay  time.Duration
	batchSize       int
	maxDustAmount   uint64
	feeFraction     float64
	feeWallet       string
}

// Options configures an Engine.
type Options struct {
	Discovery   Discovery
	Aggregator  Aggregator
	RPC         solana.RPCClient
	Wallet      *wallet.Wallet
	BurnService BurnService // optional; nil disables the delegated path
	Counters    *stats.Counters
	Metrics     *observability.Metrics // optional
	Logger      *log.Logger

	// Pointer options distinguish an explicit zero from unset: a zero
	// threshold classifies nothing as inactive, a zero floor never stops
	// the loop, a zero dust cap reclaims only empty accounts, and a zero
	// fee fraction disables fee settlement.
	VolumeThreshold *float64 // default DefaultVolumeThreshold
	BalanceFloor    *uint64  // default DefaultBalanceFloor
	MaxDustAmount   *uint64  // default DefaultMaxDustAmount
	FeeFraction     *float64 // default DefaultFeeFraction

	SwapLamports   uint64        // default DefaultSwapLamports
	CandidateDelay time.Duration // default DefaultCandidateDelay
	BatchSize      int           // default DefaultBatchSize
	FeeWallet      string
}

// New creates a sweep engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	counters := opts.Counters
	if counters == nil {
		counters = stats.New()
	}

	e := &Engine{
		discovery:       opts.Discovery,
		aggregator:      opts.Aggregator,
		rpc:             opts.RPC,
		wallet:          opts.Wallet,
		burnService:     opts.BurnService,
		counters:        counters,
		metrics:         opts.Metrics,
		logger:          logger,
		volumeThreshold: DefaultVolumeThreshold,
		swapLamports:    opts.SwapLamports,
		balanceFloor:    DefaultBalanceFloor,
		candidateDelay:  opts.CandidateDelay,
		batchSize:       opts.BatchSize,
		maxDustAmount:   DefaultMaxDustAmount,
		feeFraction:     DefaultFeeFraction,
		feeWallet:       opts.FeeWallet,
	}
	if opts.VolumeThreshold != nil {
		e.volumeThreshold = *opts.VolumeThreshold
	}
	if opts.BalanceFloor != nil {
		e.balanceFloor = *opts.BalanceFloor
	}
	if opts.MaxDustAmount != nil {
		e.maxDustAmount = *opts.MaxDustAmount
	}
	if opts.FeeFraction != nil {
		e.feeFraction = *opts.FeeFraction
	}
	if e.swapLamports == 0 {
		e.swapLamports = DefaultSwapLamports
	}
	if e.candidateDelay == 0 {
		e.candidateDelay = DefaultCandidateDelay
	}
	if e.batchSize == 0 {
		e.batchSize = DefaultBatchSize
	}
	return e
}

// Counters exposes the shared counters for status reporting.
func (e *Engine) Counters() *stats.Counters {
	return e.counters
}

// FeeWallet returns the configured fee address.
func (e *Engine) FeeWallet() string {
	return e.feeWallet
}

// Run executes one full sweep for a user. The run always completes its loop
// (or reaches the balance floor) and then unconditionally performs reclaim
// and fee settlement, even when zero swaps succeeded: reclaiming rent does
// not depend on sweep success. Partial completion is a terminal outcome, not
// an error.
func (e *Engine) Run(ctx context.Context, userID string) (*domain.SweepResult, error) {
	result := &domain.SweepResult{TerminalState: domain.SweepScanning}

	candidates := e.discovery.DiscoverInactive(ctx, e.volumeThreshold)
	e.logger.Printf("sweep for %s: %d inactive candidates", userID, len(candidates))

	result.TerminalState = domain.SweepBuying
	for _, candidate := range candidates {
		result.CandidatesConsidered++
		if e.metrics != nil {
			e.metrics.CandidatesScanned.Inc()
		}

		balance, err := e.rpc.GetBalance(ctx, e.wallet.Address())
		if err != nil {
			// Without a balance read no swap may be attempted
			e.logger.Printf("balance read failed, skipping %s: %v", candidate.Symbol, err)
			e.pause(ctx)
			continue
		}
		// At or below the floor there is nothing left worth spending
		if balance <= e.balanceFloor {
			e.logger.Printf("out of dust at %d lamports, stopping buy loop", balance)
			result.TerminalState = domain.SweepDepleted
			break
		}

		quote, err := e.aggregator.GetQuote(ctx, solana.SOLMint, candidate.Mint, e.swapLamports)
		if err != nil {
			e.logger.Printf("quote failed for %s: %v", candidate.Symbol, err)
		} else if quote == nil {
			e.logger.Printf("no route for %s, skipping", candidate.Symbol)
		} else if e.executeSwap(ctx, quote, candidate) {
			result.SuccessfulBuys++
		}

		// Bound the submission rate regardless of outcome
		e.pause(ctx)
	}
	if result.TerminalState == domain.SweepBuying {
		result.TerminalState = domain.SweepExhausted
	}

	e.counters.AddBuys(result.SuccessfulBuys)
	e.counters.IncSweepRuns()
	if e.metrics != nil {
		e.metrics.SweepRuns.Inc()
	}

	reclaimed := e.Reclaim(ctx)
	e.settleFee(ctx, reclaimed)

	e.logger.Printf("sweep for %s done: %d/%d buys, %d lamports reclaimed",
		userID, result.SuccessfulBuys, result.CandidatesConsidered, reclaimed)
	return result, nil
}

// executeSwap builds, signs and submits the swap for a quote. Success means
// the node accepted the submission; finality is never awaited.
func (e *Engine) executeSwap(ctx context.Context, quote *domain.Quote, candidate domain.Candidate) bool {
	if e.metrics != nil {
		e.metrics.SwapAttempts.Inc()
	}

	payload, err := e.aggregator.BuildSwap(ctx, quote, e.wallet.Address())
	if err != nil {
		e.logger.Printf("swap build failed for %s: %v", candidate.Symbol, err)
		return false
	}

	signed, err := soltx.SignAggregatorTransaction(payload, e.wallet)
	if err != nil {
		e.logger.Printf("swap signing failed for %s: %v", candidate.Symbol, err)
		return false
	}

	signature, err := e.rpc.SendTransaction(ctx, signed)
	if err != nil {
		e.logger.Printf("swap submission failed for %s: %v", candidate.Symbol, err)
		return false
	}

	e.logger.Printf("swap submitted for %s: https://solscan.io/tx/%s", candidate.Symbol, signature)
	if e.metrics != nil {
		e.metrics.SwapSubmissions.Inc()
	}
	return true
}

// pause waits the fixed inter-candidate delay, returning early on shutdown.
func (e *Engine) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(e.candidateDelay):
	}
}
