package redis

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/logger"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
)

var _ persistence.IClaimLedger = (*RedisLedger)(nil)

// getTestRedisAddress returns REDIS_TEST_ADDRESS, or localhost:6379 when unset.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test when Redis is unreachable. Every ledger gets its own key
// prefix so tests can run in parallel against one database.
func requireRedis(t *testing.T) *RedisLedger {
	t.Helper()

	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	cfg := &RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: fmt.Sprintf("test-%s:", uuid.NewString()),
	}

	rl, err := NewRedisLedger(cfg, testLogger)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}
	t.Cleanup(func() { cleanupRedis(t, rl) })
	return rl
}

func cleanupRedis(t *testing.T, rl *RedisLedger) {
	t.Helper()
	if rl.closed {
		return
	}
	records, err := rl.ListClaims()
	if err == nil {
		for _, r := range records {
			_ = rl.DeleteClaim(r.Key())
		}
	}
	_ = rl.client.Del(context.Background(), rl.prefixKey(keySetClaims), rl.prefixKey(keySchemaVersion)).Err()
	_ = rl.Close()
}

func newRecord(claimID string, issuedAt int64) *persistence.ClaimRecord {
	return &persistence.ClaimRecord{
		ChainID:           "97",
		VerifyingContract: "0xddaAd340b0f1Ef65169Ae5E41A8b10776a75482d",
		ClaimID:           claimID,
		UserAddress:       "0x10E3A183Db48D854870FEDa31630BC1eB0dDd52A",
		Amount:            "1000000000",
		Nonce:             "1",
		Deadline:          "1698591527",
		Digest:            "0xdc0e52ce2eb5aa96af48cec4b31d6cd40c99eb76dbcb497d3319bacece5093a9",
		V:                 28,
		IssuedAt:          issuedAt,
	}
}

func TestRedisLedger_RecordAndLoad(t *testing.T) {
	rl := requireRedis(t)

	record := newRecord("123456789", 1)
	require.NoError(t, rl.RecordClaim(record))

	loaded, err := rl.LoadClaim(record.Key())
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestRedisLedger_LoadClaim_NotFound(t *testing.T) {
	rl := requireRedis(t)

	loaded, err := rl.LoadClaim("missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisLedger_RecordClaim_Nil(t *testing.T) {
	rl := requireRedis(t)

	err := rl.RecordClaim(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil ClaimRecord")
}

func TestRedisLedger_IdempotentAndConflict(t *testing.T) {
	rl := requireRedis(t)

	require.NoError(t, rl.RecordClaim(newRecord("1", 1)))
	require.NoError(t, rl.RecordClaim(newRecord("1", 2)))

	conflicting := newRecord("1", 3)
	conflicting.Digest = "0x01"
	assert.ErrorIs(t, rl.RecordClaim(conflicting), persistence.ErrClaimConflict)

	records, err := rl.ListClaims()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].IssuedAt)
}

func TestRedisLedger_RecordClaim_IndexFailureStoresNothing(t *testing.T) {
	rl := requireRedis(t)

	// a string under the index key makes SADD fail with WRONGTYPE
	ctx := context.Background()
	require.NoError(t, rl.client.Set(ctx, rl.prefixKey(keySetClaims), "broken", 0).Err())

	record := newRecord("7", 1)
	require.Error(t, rl.RecordClaim(record))

	loaded, err := rl.LoadClaim(record.Key())
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, rl.client.Del(ctx, rl.prefixKey(keySetClaims)).Err())
	require.NoError(t, rl.RecordClaim(record))

	records, err := rl.ListClaims()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Key(), records[0].Key())
}

func TestRedisLedger_ListAndDelete(t *testing.T) {
	rl := requireRedis(t)

	for _, issuedAt := range []int64{3, 1, 2} {
		require.NoError(t, rl.RecordClaim(newRecord(fmt.Sprintf("c%d", issuedAt), issuedAt)))
	}

	records, err := rl.ListClaims()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c1", records[0].ClaimID)
	assert.Equal(t, "c3", records[2].ClaimID)

	require.NoError(t, rl.DeleteClaim(records[0].Key()))
	require.NoError(t, rl.DeleteClaim(records[0].Key()))

	records, err = rl.ListClaims()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRedisLedger_CloseAndHealthCheck(t *testing.T) {
	rl := requireRedis(t)

	require.NoError(t, rl.HealthCheck())
	require.NoError(t, rl.Close())
	require.NoError(t, rl.Close())

	assert.ErrorIs(t, rl.HealthCheck(), persistence.ErrLedgerClosed)
	assert.ErrorIs(t, rl.RecordClaim(newRecord("1", 1)), persistence.ErrLedgerClosed)
}

func TestRedisLedger_ConcurrentConflict(t *testing.T) {
	rl := requireRedis(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := newRecord("contested", int64(i))
			r.Digest = fmt.Sprintf("0x%064x", i+1)
			errs[i] = rl.RecordClaim(r)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRedisLedger_Config_Nil(t *testing.T) {
	_, err := NewRedisLedger(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestRedisLedger_Config_EmptyAddress(t *testing.T) {
	_, err := NewRedisLedger(&RedisConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be empty")
}
