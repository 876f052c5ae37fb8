package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
)

const (
	keyPrefixClaim       = "claims:claim:"
	keySetClaims         = "claims:index"
	keySchemaVersion     = "claims:metadata:schema_version"
	currentSchemaVersion = "v1"

	operationTimeout = 5 * time.Second
)

// recordScript indexes the claim before storing it, so a failed SADD leaves nothing behind
// and a stored claim is always listed. Returns 0 when the claim key already exists.
var recordScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("SADD", KEYS[2], ARGV[2])
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

// RedisLedger is an IClaimLedger backed by Redis, for operators that issue claims from
// more than one host against the same claim id space.
type RedisLedger struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "bsc:" yields "bsc:claims:claim:...".
	KeyPrefix string
}

// NewRedisLedger connects to Redis and initializes the schema marker.
func NewRedisLedger(cfg *RedisConfig, logger *zap.Logger) (*RedisLedger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rl := &RedisLedger{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rl.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Debugw("Redis claim ledger initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rl, nil
}

func (r *RedisLedger) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisLedger) claimKey(key string) string {
	return r.prefixKey(keyPrefixClaim + key)
}

func (r *RedisLedger) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	// SetNX so concurrent first starts agree on one marker
	if err := r.client.SetNX(ctx, schemaKey, currentSchemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}

	existing, err := r.client.Get(ctx, schemaKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if existing != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
	}
	return nil
}

// RecordClaim stores and indexes the claim in one script. When the key already exists the
// stored record decides between an idempotent no-op and ErrClaimConflict.
func (r *RedisLedger) RecordClaim(record *persistence.ClaimRecord) error {
	if record == nil {
		return fmt.Errorf("cannot record nil ClaimRecord")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrLedgerClosed
	}

	data, err := persistence.MarshalClaimRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ClaimRecord: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	key := record.Key()
	stored, err := recordScript.Run(ctx, r.client,
		[]string{r.claimKey(key), r.prefixKey(keySetClaims)},
		string(data), key,
	).Int()
	if err != nil {
		return fmt.Errorf("failed to record ClaimRecord: %w", err)
	}
	if stored == 1 {
		return nil
	}

	existing, err := r.load(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil && existing.SameClaim(record) {
		return nil
	}
	return fmt.Errorf("%w: %s", persistence.ErrClaimConflict, key)
}

func (r *RedisLedger) load(ctx context.Context, key string) (*persistence.ClaimRecord, error) {
	data, err := r.client.Get(ctx, r.claimKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ClaimRecord: %w", err)
	}

	record, err := persistence.UnmarshalClaimRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal ClaimRecord: %w", err)
	}
	return record, nil
}

// LoadClaim retrieves a record by key, returning nil when it does not exist.
func (r *RedisLedger) LoadClaim(key string) (*persistence.ClaimRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrLedgerClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	return r.load(ctx, key)
}

// ListClaims reads every key in the index set with a single MGET. Index entries whose
// record has disappeared are removed.
func (r *RedisLedger) ListClaims() ([]*persistence.ClaimRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrLedgerClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	indexKey := r.prefixKey(keySetClaims)
	members, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list claim keys: %w", err)
	}

	records := make([]*persistence.ClaimRecord, 0, len(members))
	if len(members) == 0 {
		return records, nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		keys[i] = r.claimKey(member)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ClaimRecords: %w", err)
	}

	for i, val := range values {
		if val == nil {
			r.client.SRem(ctx, indexKey, members[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for ClaimRecord", "key", keys[i])
			continue
		}

		record, err := persistence.UnmarshalClaimRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal ClaimRecord, skipping", "key", keys[i], "error", err)
			continue
		}
		records = append(records, record)
	}

	persistence.SortClaims(records)
	return records, nil
}

// DeleteClaim removes a record and its index entry.
func (r *RedisLedger) DeleteClaim(key string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrLedgerClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.claimKey(key))
	pipe.SRem(ctx, r.prefixKey(keySetClaims), key)

	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the Redis client.
func (r *RedisLedger) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Debug("Redis claim ledger closed")
	return nil
}

// HealthCheck pings Redis and checks the schema marker.
func (r *RedisLedger) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrLedgerClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	return err
}
