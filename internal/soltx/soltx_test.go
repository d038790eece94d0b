package soltx

import (
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/DUSTBOT313/DUST-BOT/internal/domain"
	solrpc "github.com/DUSTBOT313/DUST-BOT/internal/solana"
	"github.com/DUSTBOT313/DUST-BOT/internal/wallet"
)

const testBlockhash = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	key, err := solanago.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	w, err := wallet.Load(key.String(), key.PublicKey().String())
	if err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return w
}

func decodeTx(t *testing.T, txBase64 string) *solanago.Transaction {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	tx, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	return tx
}

func TestBuildBurnCloseBatch(t *testing.T) {
	w := testWallet(t)
	mint := solanago.NewWallet().PublicKey()
	acct := solanago.NewWallet().PublicKey()
	empty := solanago.NewWallet().PublicKey()

	accounts := []domain.TokenAccount{
		{Address: acct.String(), Mint: mint.String(), Amount: 37, Program: solrpc.TokenProgram},
		{Address: empty.String(), Mint: mint.String(), Amount: 0, Program: solrpc.TokenProgram},
	}

	payload, err := BuildBurnCloseBatch(accounts, w, testBlockhash)
	if err != nil {
		t.Fatalf("BuildBurnCloseBatch: %v", err)
	}

	tx := decodeTx(t, payload)

	// burn+close for the funded account, close only for the empty one
	if got := len(tx.Message.Instructions); got != 3 {
		t.Fatalf("expected 3 instructions, got %d", got)
	}
	if len(tx.Signatures) != 1 {
		t.Fatalf("expected 1 signature, got %d", len(tx.Signatures))
	}
	if !tx.Message.AccountKeys[0].Equals(w.PublicKey()) {
		t.Errorf("expected fee payer %s, got %s", w.PublicKey(), tx.Message.AccountKeys[0])
	}
}

func TestBuildBurnCloseBatch_NoAccounts(t *testing.T) {
	w := testWallet(t)
	if _, err := BuildBurnCloseBatch(nil, w, testBlockhash); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestBuildTransfer(t *testing.T) {
	w := testWallet(t)
	dest := solanago.NewWallet().PublicKey()

	payload, err := BuildTransfer(12345, dest.String(), w, testBlockhash)
	if err != nil {
		t.Fatalf("BuildTransfer: %v", err)
	}

	tx := decodeTx(t, payload)
	if got := len(tx.Message.Instructions); got != 1 {
		t.Fatalf("expected 1 instruction, got %d", got)
	}
	if len(tx.Signatures) != 1 {
		t.Fatalf("expected 1 signature, got %d", len(tx.Signatures))
	}
}

func TestSignAggregatorTransaction(t *testing.T) {
	w := testWallet(t)
	dest := solanago.NewWallet().PublicKey()

	// Simulate an aggregator-built transaction: assembled but unsigned,
	// with the wallet as the required signer.
	hash, err := solanago.HashFromBase58(testBlockhash)
	if err != nil {
		t.Fatalf("parse blockhash: %v", err)
	}
	unsigned, err := solanago.NewTransaction(
		[]solanago.Instruction{
			system.NewTransferInstruction(1000, w.PublicKey(), dest).Build(),
		},
		hash,
		solanago.TransactionPayer(w.PublicKey()),
	)
	if err != nil {
		t.Fatalf("build unsigned tx: %v", err)
	}
	raw, err := unsigned.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal unsigned tx: %v", err)
	}

	payload, err := SignAggregatorTransaction(raw, w)
	if err != nil {
		t.Fatalf("SignAggregatorTransaction: %v", err)
	}

	tx := decodeTx(t, payload)
	if len(tx.Signatures) != 1 {
		t.Fatalf("expected 1 signature, got %d", len(tx.Signatures))
	}
	if tx.Signatures[0].IsZero() {
		t.Error("expected a real signature, got zero")
	}
}
