package stub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
)

// ErrUnavailable simulates an unreachable RPC node.
var ErrUnavailable = errors.New("rpc unavailable")

// RPCClient implements solana.RPCClient for testing.
// Balances may be scripted as a sequence: each GetBalance call consumes the
// next value, and the last value repeats once the sequence is exhausted.
type RPCClient struct {
	mu sync.Mutex

	Balances      []uint64
	balanceIdx    int
	Blockhash     string
	TokenAccounts map[string][]domain.TokenAccount // keyed by program id
	SendErr       error
	Unavailable   bool

	SentTransactions []string
	BalanceReads     int
}

// NewRPCClient creates a stub with a fixed blockhash.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Blockhash:     "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		TokenAccounts: make(map[string][]domain.TokenAccount),
	}
}

// GetBalance returns the next scripted balance.
func (c *RPCClient) GetBalance(_ context.Context, _ string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Unavailable {
		return 0, ErrUnavailable
	}
	c.BalanceReads++
	if len(c.Balances) == 0 {
		return 0, nil
	}
	bal := c.Balances[c.balanceIdx]
	if c.balanceIdx < len(c.Balances)-1 {
		c.balanceIdx++
	}
	return bal, nil
}

// GetLatestBlockhash returns the fixed blockhash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context) (string, error) {
	if c.Unavailable {
		return "", ErrUnavailable
	}
	return c.Blockhash, nil
}

// SendTransaction records the submitted payload and returns a fake signature.
func (c *RPCClient) SendTransaction(_ context.Context, txBase64 string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Unavailable {
		return "", ErrUnavailable
	}
	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.SentTransactions = append(c.SentTransactions, txBase64)
	return fmt.Sprintf("stubsig%d", len(c.SentTransactions)), nil
}

// GetTokenAccountsByOwner returns the scripted accounts for a program.
func (c *RPCClient) GetTokenAccountsByOwner(_ context.Context, _, program string) ([]domain.TokenAccount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Unavailable {
		return nil, ErrUnavailable
	}
	return c.TokenAccounts[program], nil
}

// SentCount returns the number of accepted transactions.
func (c *RPCClient) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.SentTransactions)
}
