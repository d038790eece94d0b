package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, float64(DefaultVolumeThreshold), cfg.VolumeThreshold)
	assert.Equal(t, uint64(DefaultSwapLamports), cfg.SwapLamports)
	assert.Equal(t, DefaultFeeFraction, cfg.FeeFraction)
	assert.Equal(t, DefaultRPCEndpoint, cfg.RPCEndpoint)
	assert.Equal(t, uint64(DefaultBalanceFloor), cfg.BalanceFloor)
	assert.Equal(t, uint64(DefaultMaxDustAmount), cfg.MaxDustAmount)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, DefaultCandidateDelay, cfg.CandidateDelay)
	assert.Equal(t, DefaultLookupDelay, cfg.LookupDelay)
	assert.Equal(t, DefaultQueueKey, cfg.QueueKey)
	assert.Equal(t, DefaultQueueWait, cfg.QueueWait)
	assert.Contains(t, cfg.ListingURL, "limit=")
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "key")
	t.Setenv("VOLUME_THRESHOLD", "250.5")
	t.Setenv("SWAP_LAMPORTS", "5000")
	t.Setenv("FEE_FRACTION", "0.05")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BALANCE_FLOOR_LAMPORTS", "500")
	t.Setenv("MAX_DUST_AMOUNT", "42")
	t.Setenv("BATCH_SIZE", "5")
	t.Setenv("CANDIDATE_DELAY", "100ms")
	t.Setenv("LOOKUP_DELAY", "3s")
	t.Setenv("QUEUE_KEY", "jobs")
	t.Setenv("QUEUE_WAIT", "2s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 250.5, cfg.VolumeThreshold)
	assert.Equal(t, uint64(5000), cfg.SwapLamports)
	assert.Equal(t, 0.05, cfg.FeeFraction)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, uint64(500), cfg.BalanceFloor)
	assert.Equal(t, uint64(42), cfg.MaxDustAmount)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.CandidateDelay)
	assert.Equal(t, 3*time.Second, cfg.LookupDelay)
	assert.Equal(t, "jobs", cfg.QueueKey)
	assert.Equal(t, 2*time.Second, cfg.QueueWait)
}

func TestFromEnvRequiresWallet(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "")

	_, err := FromEnv()
	require.ErrorIs(t, err, ErrMissingWallet)
}

func TestValidateFeeFractionRange(t *testing.T) {
	cfg := &Config{WalletPrivateKey: "key", BatchSize: 1, FeeFraction: 1.5}
	assert.Error(t, cfg.Validate())

	cfg.FeeFraction = -0.1
	assert.Error(t, cfg.Validate())

	cfg.FeeFraction = 0.5
	assert.NoError(t, cfg.Validate())

	cfg.FeeFraction = 0
	assert.NoError(t, cfg.Validate(), "zero disables fees and is valid")
}

func TestValidateBatchSize(t *testing.T) {
	cfg := &Config{WalletPrivateKey: "key", BatchSize: 0}
	assert.Error(t, cfg.Validate())
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("WALLET_PRIVATE_KEY", "key")
	t.Setenv("SWAP_LAMPORTS", "not-a-number")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	t.Setenv("CANDIDATE_DELAY", "250ms")

	d, err := ParseDuration("CANDIDATE_DELAY", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = ParseDuration("UNSET_DELAY", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	t.Setenv("BAD_DELAY", "soon")
	_, err = ParseDuration("BAD_DELAY", time.Second)
	require.Error(t, err)
}
