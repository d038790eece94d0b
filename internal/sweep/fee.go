package sweep

import (
	"context"

	"github.com/DUSTBOT313/DUST-BOT/internal/soltx"
)

// settleFee transfers the operator's share of the reclaimed value to the fee
// wallet. The ledger is updated only after the transfer is accepted for
// submission. Failure to send the fee is non-fatal and never rolls back the
// sweep or reclaim results.
func (e *Engine) settleFee(ctx context.Context, reclaimedLamports uint64) {
	if e.feeWallet == "" {
		return
	}

	fee := uint64(float64(reclaimedLamports) * e.feeFraction)
	if fee == 0 {
		e.logger.Printf("fee settlement: nothing to send")
		return
	}

	blockhash, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		e.logger.Printf("fee settlement: blockhash fetch failed: %v", err)
		return
	}

	payload, err := soltx.BuildTransfer(fee, e.feeWallet, e.wallet, blockhash)
	if err != nil {
		e.logger.Printf("fee settlement: build failed: %v", err)
		return
	}

	signature, err := e.rpc.SendTransaction(ctx, payload)
	if err != nil {
		e.logger.Printf("fee settlement: submission failed: %v", err)
		return
	}

	e.counters.AddFee(fee)
	if e.metrics != nil {
		e.metrics.FeeLamportsSent.Add(float64(fee))
	}
	e.logger.Printf("fee of %d lamports sent to %s: %s", fee, e.feeWallet, signature)
}
