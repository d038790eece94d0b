package wallet

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

func testKeypair(t *testing.T) (string, string) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return base58.Encode(key), key.PublicKey().String()
}

func TestLoad(t *testing.T) {
	keyB58, addr := testKeypair(t)

	w, err := Load(keyB58, addr)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Address() != addr {
		t.Errorf("Address() = %s, want %s", w.Address(), addr)
	}
	if w.PublicKey().String() != addr {
		t.Errorf("PublicKey() = %s, want %s", w.PublicKey(), addr)
	}
}

func TestLoadWithoutExpectedAddress(t *testing.T) {
	keyB58, addr := testKeypair(t)

	w, err := Load(keyB58, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Address() != addr {
		t.Errorf("Address() = %s, want %s", w.Address(), addr)
	}
}

func TestLoadMissingKey(t *testing.T) {
	if _, err := Load("", ""); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err = %v, want ErrMissingKey", err)
	}
}

func TestLoadMismatchedAddress(t *testing.T) {
	keyB58, _ := testKeypair(t)
	_, other := testKeypair(t)

	if _, err := Load(keyB58, other); !errors.Is(err, ErrKeyMismatch) {
		t.Fatalf("err = %v, want ErrKeyMismatch", err)
	}
}

func TestLoadRejectsShortKey(t *testing.T) {
	short := base58.Encode([]byte{1, 2, 3})
	if _, err := Load(short, ""); err == nil {
		t.Fatal("Load accepted a 3-byte key")
	}
}

func TestLoadRejectsBadEncoding(t *testing.T) {
	if _, err := Load("not-base58-0OIl", ""); err == nil {
		t.Fatal("Load accepted invalid base58")
	}
}

func TestValidateAddress(t *testing.T) {
	_, addr := testKeypair(t)
	if err := ValidateAddress(addr); err != nil {
		t.Errorf("ValidateAddress(%s) = %v", addr, err)
	}

	if err := ValidateAddress("tooShort"); err == nil {
		t.Error("ValidateAddress accepted a short address")
	}
	if err := ValidateAddress("!!!"); err == nil {
		t.Error("ValidateAddress accepted invalid base58")
	}
}
