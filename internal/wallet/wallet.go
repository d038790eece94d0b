// Package wallet loads and validates the operator keypair at startup.
// A missing or mismatched private key is the only fatal startup condition
// in the sweep pipeline.
package wallet

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

var (
	// ErrMissingKey is returned when no private key is configured.
	ErrMissingKey = errors.New("wallet private key not set")

	// ErrKeyMismatch is returned when the derived public key does not match
	// the configured wallet address.
	ErrKeyMismatch = errors.New("private key does not match wallet address")
)

// Wallet is the validated signing identity for all submitted transactions.
type Wallet struct {
	key    solana.PrivateKey
	pubkey solana.PublicKey
}

// Load decodes a base58 private key and verifies it derives the expected
// wallet address. expected may be empty, in which case the derived address
// is accepted as-is.
func Load(privateKeyB58, expected string) (*Wallet, error) {
	if privateKeyB58 == "" {
		return nil, ErrMissingKey
	}

	raw, err := base58.Decode(privateKeyB58)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("private key must be 64 bytes, got %d", len(raw))
	}

	key := solana.PrivateKey(raw)
	pubkey := key.PublicKey()

	if expected != "" && pubkey.String() != expected {
		return nil, fmt.Errorf("%w: derived %s, expected %s", ErrKeyMismatch, pubkey, expected)
	}

	return &Wallet{key: key, pubkey: pubkey}, nil
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.pubkey
}

// Address returns the wallet's base58 address.
func (w *Wallet) Address() string {
	return w.pubkey.String()
}

// PrivateKey exposes the signing key for transaction builders.
func (w *Wallet) PrivateKey() solana.PrivateKey {
	return w.key
}

// ValidateAddress checks that addr is a well-formed base58 ed25519 point.
// Used for the configured fee wallet, which must be a real on-curve address.
func ValidateAddress(addr string) error {
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("address must be 32 bytes, got %d", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("address is not on the ed25519 curve: %w", err)
	}
	return nil
}
