package solana

import (
	"context"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// RPCClient defines the Solana RPC HTTP interface used by the sweep pipeline.
type RPCClient interface {
	// GetBalance returns the lamport balance of an address.
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetLatestBlockhash returns a recent blockhash for transaction building.
	GetLatestBlockhash(ctx context.Context) (string, error)

	// SendTransaction submits a base64-encoded signed transaction and returns
	// its signature. Submission is best-effort: acceptance by the node does
	// not imply on-chain finality, and no confirmation wait is performed.
	SendTransaction(ctx context.Context, txBase64 string) (string, error)

	// GetTokenAccountsByOwner lists token accounts held by owner under the
	// given token program.
	GetTokenAccountsByOwner(ctx context.Context, owner, program string) ([]domain.TokenAccount, error)
}

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// Well-known addresses.
const (
	// SOLMint is the wrapped-SOL mint used as the swap input side.
	SOLMint = "So11111111111111111111111111111111111111112"

	// TokenProgram is the classic SPL token program.
	TokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	// Token2022Program is the token-2022 program.
	Token2022Program = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
)
