package sweep

import (
	"context"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/solana"
	"github.com/DUSTBOT313/DUST-BOT/internal/soltx"
)

// Reclaim burns zero/near-zero token balances and closes their accounts to
// recover rent. Accounts whose manual batch fails are handed to the delegated
// burn service when one is configured. Individual failures are logged and
// skipped; the stage never aborts the run. Returns the reclaimed lamports.
func (e *Engine) Reclaim(ctx context.Context) uint64 {
	accounts := e.reclaimableAccounts(ctx)
	if len(accounts) == 0 {
		e.logger.Printf("reclaim: no dust accounts")
		return 0
	}
	e.logger.Printf("reclaim: %d dust accounts", len(accounts))

	var reclaimed uint64
	var leftover []string

	for start := 0; start < len(accounts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(accounts) {
			end = len(accounts)
		}
		batch := accounts[start:end]

		if err := e.submitBurnBatch(ctx, batch); err != nil {
			e.logger.Printf("burn batch failed (%d accounts): %v", len(batch), err)
			for _, acct := range batch {
				leftover = append(leftover, acct.Address)
			}
			continue
		}

		reclaimed += uint64(len(batch)) * TokenAccountRentLamports
		if e.metrics != nil {
			e.metrics.BurnBatches.Inc()
			e.metrics.AccountsReclaimed.Add(float64(len(batch)))
		}
	}

	if e.burnService != nil && len(leftover) > 0 {
		delegated, err := e.burnService.Burn(ctx, leftover)
		if err != nil {
			e.logger.Printf("delegated reclaim failed for %d accounts: %v", len(leftover), err)
		} else {
			e.logger.Printf("delegated reclaim recovered %d lamports", delegated)
			reclaimed += delegated
		}
	}

	if e.metrics != nil {
		e.metrics.ReclaimedLamports.Add(float64(reclaimed))
	}
	return reclaimed
}

// reclaimableAccounts enumerates the wallet's token accounts across both
// token programs and keeps those with negligible balances. Enumeration
// failures yield a partial (possibly empty) set.
func (e *Engine) reclaimableAccounts(ctx context.Context) []domain.TokenAccount {
	var reclaimable []domain.TokenAccount
	for _, program := range []string{solana.TokenProgram, solana.Token2022Program} {
		accounts, err := e.rpc.GetTokenAccountsByOwner(ctx, e.wallet.Address(), program)
		if err != nil {
			e.logger.Printf("token account scan failed for %s: %v", program, err)
			continue
		}
		for _, acct := range accounts {
			if acct.Amount <= e.maxDustAmount {
				reclaimable = append(reclaimable, acct)
			}
		}
	}
	return reclaimable
}

// submitBurnBatch builds, signs and submits one burn+close batch.
func (e *Engine) submitBurnBatch(ctx context.Context, batch []domain.TokenAccount) error {
	blockhash, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}

	payload, err := soltx.BuildBurnCloseBatch(batch, e.wallet, blockhash)
	if err != nil {
		return err
	}

	signature, err := e.rpc.SendTransaction(ctx, payload)
	if err != nil {
		return err
	}
	e.logger.Printf("burn batch submitted (%d accounts): %s", len(batch), signature)
	return nil
}
