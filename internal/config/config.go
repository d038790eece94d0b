// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultAddr            = ":8080"
	DefaultRPCEndpoint     = "https://api.mainnet-beta.solana.com"
	DefaultQuoteURL        = "https://quote-api.jup.ag/v6/quote"
	DefaultSwapURL         = "https://quote-api.jup.ag/v6/swap"
	DefaultListingURL      = "https://frontend-api.pump.fun/coins?offset=0&limit=500"
	DefaultMarketDataURL   = "https://api.dexscreener.com/latest/dex/tokens/"
	DefaultIncineratorURL  = "https://api.sol-incinerator.com"
	DefaultVolumeThreshold = 100
	DefaultSwapLamports    = 100
	DefaultFeeFraction     = 0.10
	DefaultBalanceFloor    = 200       // lamports
	DefaultMaxDustAmount   = 1_000_000 // raw token units
	DefaultBatchSize       = 10
	DefaultCandidateDelay  = 1 * time.Second
	DefaultLookupDelay     = 2 * time.Second
	DefaultQueueKey        = "user_queue"
	DefaultQueueWait       = 5 * time.Second
)

// Config is everything the server needs to run.
type Config struct {
	Addr string

	RPCEndpoint string

	WalletPrivateKey string // base58 64-byte keypair
	WalletAddress    string // expected public key, checked against the keypair

	QuoteURL       string
	SwapURL        string
	ListingURL     string
	MarketDataURL  string
	IncineratorURL string
	IncineratorKey string

	FeeWallet   string
	FeeFraction float64

	VolumeThreshold float64
	SwapLamports    uint64
	BalanceFloor    uint64 // lamports; at or below, the buy loop stops
	MaxDustAmount   uint64 // raw token units still considered reclaimable
	BatchSize       int    // burn+close operations per transaction
	CandidateDelay  time.Duration
	LookupDelay     time.Duration

	RedisURL  string // empty selects the in-memory queue
	QueueKey  string
	QueueWait time.Duration // bounded blocking-dequeue wait

	TelegramToken string
	MiniAppURL    string
}

// ErrMissingWallet is returned when no private key is configured.
var ErrMissingWallet = errors.New("WALLET_PRIVATE_KEY is required")

// FromEnv builds a Config from environment variables, applying defaults for
// everything optional.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:             envOr("ADDR", DefaultAddr),
		RPCEndpoint:      envOr("RPC_ENDPOINT", DefaultRPCEndpoint),
		WalletPrivateKey: os.Getenv("WALLET_PRIVATE_KEY"),
		WalletAddress:    os.Getenv("WALLET_ADDRESS"),
		QuoteURL:         envOr("QUOTE_URL", DefaultQuoteURL),
		SwapURL:          envOr("SWAP_URL", DefaultSwapURL),
		ListingURL:       envOr("LISTING_URL", DefaultListingURL),
		MarketDataURL:    envOr("MARKET_DATA_URL", DefaultMarketDataURL),
		IncineratorURL:   envOr("INCINERATOR_URL", DefaultIncineratorURL),
		IncineratorKey:   os.Getenv("INCINERATOR_API_KEY"),
		FeeWallet:        os.Getenv("FEE_WALLET"),
		FeeFraction:      DefaultFeeFraction,
		VolumeThreshold:  DefaultVolumeThreshold,
		SwapLamports:     DefaultSwapLamports,
		BalanceFloor:     DefaultBalanceFloor,
		MaxDustAmount:    DefaultMaxDustAmount,
		BatchSize:        DefaultBatchSize,
		RedisURL:         os.Getenv("REDIS_URL"),
		QueueKey:         envOr("QUEUE_KEY", DefaultQueueKey),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		MiniAppURL:       os.Getenv("MINI_APP_URL"),
	}

	if v := os.Getenv("FEE_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse FEE_FRACTION: %w", err)
		}
		cfg.FeeFraction = f
	}
	if v := os.Getenv("VOLUME_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse VOLUME_THRESHOLD: %w", err)
		}
		cfg.VolumeThreshold = f
	}
	if v := os.Getenv("SWAP_LAMPORTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SWAP_LAMPORTS: %w", err)
		}
		cfg.SwapLamports = n
	}
	if v := os.Getenv("BALANCE_FLOOR_LAMPORTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse BALANCE_FLOOR_LAMPORTS: %w", err)
		}
		cfg.BalanceFloor = n
	}
	if v := os.Getenv("MAX_DUST_AMOUNT"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse MAX_DUST_AMOUNT: %w", err)
		}
		cfg.MaxDustAmount = n
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}

	var err error
	if cfg.CandidateDelay, err = ParseDuration("CANDIDATE_DELAY", DefaultCandidateDelay); err != nil {
		return nil, err
	}
	if cfg.LookupDelay, err = ParseDuration("LOOKUP_DELAY", DefaultLookupDelay); err != nil {
		return nil, err
	}
	if cfg.QueueWait, err = ParseDuration("QUEUE_WAIT", DefaultQueueWait); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants a running server depends on.
func (c *Config) Validate() error {
	if c.WalletPrivateKey == "" {
		return ErrMissingWallet
	}
	if c.FeeFraction < 0 || c.FeeFraction >= 1 {
		return fmt.Errorf("FEE_FRACTION %v out of range [0, 1)", c.FeeFraction)
	}
	if c.VolumeThreshold < 0 {
		return fmt.Errorf("VOLUME_THRESHOLD %v must not be negative", c.VolumeThreshold)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE %d must be at least 1", c.BatchSize)
	}
	return nil
}

// ParseDuration is a helper for duration-typed variables.
func ParseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
