package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
)

const (
	keyPrefixClaim       = "claim:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5

	maxConflictRetries = 3
)

// BadgerLedger is a disk-backed IClaimLedger. Records survive restarts, which makes it
// the ledger of choice for an operator issuing claims from a single host.
type BadgerLedger struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerLedger opens (or creates) a ledger at dataPath with SyncWrites enabled and
// starts a background value log GC loop.
func NewBadgerLedger(dataPath string, logger *zap.Logger) (*BadgerLedger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newZapBadgerLogger(logger)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bl := &BadgerLedger{
		db:     db,
		logger: logger,
	}

	if err := bl.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bl.gcCancel = cancel
	bl.gcWg.Add(1)
	go bl.runGC(ctx)

	logger.Sugar().Debugw("Badger claim ledger initialized", "path", absPath)

	return bl, nil
}

func (b *BadgerLedger) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		existing, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}
		if string(existing) != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
		}
		return nil
	})
}

func (b *BadgerLedger) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func claimKey(key string) []byte {
	return []byte(keyPrefixClaim + key)
}

// RecordClaim stores a record. The existence check and the write share one transaction,
// so two writers racing on the same key cannot both succeed with different digests.
// A transaction that loses the race is retried and then sees the winner's record.
func (b *BadgerLedger) RecordClaim(record *persistence.ClaimRecord) error {
	if record == nil {
		return fmt.Errorf("cannot record nil ClaimRecord")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrLedgerClosed
	}

	data, err := persistence.MarshalClaimRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ClaimRecord: %w", err)
	}

	key := record.Key()
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = b.db.Update(func(txn *badgerdb.Txn) error {
			return recordInTxn(txn, key, record, data)
		})
		// a concurrent commit touched the key; rerun so the stored digest decides
		if !errors.Is(err, badgerdb.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", persistence.ErrClaimConflict, key)
}

func recordInTxn(txn *badgerdb.Txn, key string, record *persistence.ClaimRecord, data []byte) error {
	item, err := txn.Get(claimKey(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return txn.Set(claimKey(key), data)
	}
	if err != nil {
		return err
	}

	raw, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	existing, err := persistence.UnmarshalClaimRecord(raw)
	if err != nil {
		return fmt.Errorf("failed to unmarshal existing ClaimRecord: %w", err)
	}
	if existing.SameClaim(record) {
		return nil
	}
	return fmt.Errorf("%w: %s", persistence.ErrClaimConflict, key)
}

// LoadClaim retrieves a record by key, returning nil when it does not exist.
func (b *BadgerLedger) LoadClaim(key string) (*persistence.ClaimRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrLedgerClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(claimKey(key))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load ClaimRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	record, err := persistence.UnmarshalClaimRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal ClaimRecord: %w", err)
	}
	return record, nil
}

// ListClaims returns every record, skipping entries that fail to decode.
func (b *BadgerLedger) ListClaims() ([]*persistence.ClaimRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrLedgerClosed
	}

	records := make([]*persistence.ClaimRecord, 0)
	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixClaim)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			record, err := persistence.UnmarshalClaimRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal ClaimRecord, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ClaimRecords: %w", err)
	}

	persistence.SortClaims(records)
	return records, nil
}

// DeleteClaim removes a record.
func (b *BadgerLedger) DeleteClaim(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrLedgerClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(claimKey(key))
	})
}

// Close stops the GC loop and closes the database.
func (b *BadgerLedger) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Debug("Badger claim ledger closed")
	return nil
}

// HealthCheck reads the schema marker to confirm the database is accessible.
func (b *BadgerLedger) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrLedgerClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
