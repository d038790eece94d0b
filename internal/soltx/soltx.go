// Package soltx builds and signs the transactions submitted by the sweep
// pipeline: burn+close batches, the fee transfer, and countersigning of
// aggregator-built swap transactions.
package soltx

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	"github.com/DUSTBOT313/DUST-BOT/internal/wallet"
)

// SPL token program instruction tags. Shared by the classic token program and
// token-2022, which is why the instructions are assembled generically instead
// of through a program-specific builder.
const (
	tokenInstructionBurn         = 8
	tokenInstructionCloseAccount = 9
)

// burnInstruction burns amount of mint held in source, authorized by owner.
func burnInstruction(program, source, mint, owner solana.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = tokenInstructionBurn
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(source, true, false),
		solana.NewAccountMeta(mint, true, false),
		solana.NewAccountMeta(owner, false, true),
	}, data)
}

// closeAccountInstruction closes account, refunding its rent lamports to dest.
func closeAccountInstruction(program, account, dest, owner solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(account, true, false),
		solana.NewAccountMeta(dest, true, false),
		solana.NewAccountMeta(owner, false, true),
	}, []byte{tokenInstructionCloseAccount})
}

// BuildBurnCloseBatch builds a signed transaction that burns any residual
// balance in each token account and closes it, refunding rent to the wallet.
// Returns the base64 payload ready for submission.
func BuildBurnCloseBatch(accounts []domain.TokenAccount, w *wallet.Wallet, blockhash string) (string, error) {
	if len(accounts) == 0 {
		return "", fmt.Errorf("no accounts to reclaim")
	}

	hash, err := solana.HashFromBase58(blockhash)
	if err != nil {
		return "", fmt.Errorf("parse blockhash: %w", err)
	}

	owner := w.PublicKey()
	var instructions []solana.Instruction
	for _, acct := range accounts {
		program, err := solana.PublicKeyFromBase58(acct.Program)
		if err != nil {
			return "", fmt.Errorf("parse program %s: %w", acct.Program, err)
		}
		source, err := solana.PublicKeyFromBase58(acct.Address)
		if err != nil {
			return "", fmt.Errorf("parse account %s: %w", acct.Address, err)
		}
		mint, err := solana.PublicKeyFromBase58(acct.Mint)
		if err != nil {
			return "", fmt.Errorf("parse mint %s: %w", acct.Mint, err)
		}

		if acct.Amount > 0 {
			instructions = append(instructions, burnInstruction(program, source, mint, owner, acct.Amount))
		}
		instructions = append(instructions, closeAccountInstruction(program, source, owner, owner))
	}

	tx, err := solana.NewTransaction(instructions, hash, solana.TransactionPayer(owner))
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	return signAndEncode(tx, w)
}

// BuildTransfer builds a signed system transfer of lamports to a destination
// address, used for fee settlement.
func BuildTransfer(lamports uint64, to string, w *wallet.Wallet, blockhash string) (string, error) {
	hash, err := solana.HashFromBase58(blockhash)
	if err != nil {
		return "", fmt.Errorf("parse blockhash: %w", err)
	}
	dest, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", fmt.Errorf("parse destination %s: %w", to, err)
	}

	ix := system.NewTransferInstruction(lamports, w.PublicKey(), dest).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, hash, solana.TransactionPayer(w.PublicKey()))
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	return signAndEncode(tx, w)
}

// SignAggregatorTransaction decodes the transaction payload returned by the
// swap aggregator, signs it with the wallet and re-encodes it for submission.
// The payload arrives fully routed; only the wallet signature is added.
func SignAggregatorTransaction(payload []byte, w *wallet.Wallet) (string, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(payload))
	if err != nil {
		return "", fmt.Errorf("decode aggregator transaction: %w", err)
	}
	return signAndEncode(tx, w)
}

func signAndEncode(tx *solana.Transaction, w *wallet.Wallet) (string, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey()) {
			k := w.PrivateKey()
			return &k
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
