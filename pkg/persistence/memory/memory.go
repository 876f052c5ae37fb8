package memory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
)

// MemoryLedger is an in-memory implementation of IClaimLedger.
//
// Records are lost when the process exits, so duplicate protection only lasts for the
// lifetime of one process. Records are copied on the way in and out.
type MemoryLedger struct {
	mu     sync.RWMutex
	claims map[string]*persistence.ClaimRecord
	closed bool
}

// NewMemoryLedger creates a new in-memory claim ledger.
func NewMemoryLedger(logger *zap.Logger) *MemoryLedger {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory claim ledger - issued claims are not persisted across restarts")
	}
	return &MemoryLedger{
		claims: make(map[string]*persistence.ClaimRecord),
	}
}

// RecordClaim stores a claim record.
func (m *MemoryLedger) RecordClaim(record *persistence.ClaimRecord) error {
	if record == nil {
		return fmt.Errorf("cannot record nil ClaimRecord")
	}
	if err := record.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrLedgerClosed
	}

	key := record.Key()
	if existing, ok := m.claims[key]; ok {
		if existing.SameClaim(record) {
			return nil
		}
		return fmt.Errorf("%w: %s", persistence.ErrClaimConflict, key)
	}

	copied := *record
	m.claims[key] = &copied
	return nil
}

// LoadClaim retrieves a claim record by key.
func (m *MemoryLedger) LoadClaim(key string) (*persistence.ClaimRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrLedgerClosed
	}

	record, ok := m.claims[key]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// ListClaims returns all claim records.
func (m *MemoryLedger) ListClaims() ([]*persistence.ClaimRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrLedgerClosed
	}

	records := make([]*persistence.ClaimRecord, 0, len(m.claims))
	for _, record := range m.claims {
		copied := *record
		records = append(records, &copied)
	}
	persistence.SortClaims(records)
	return records, nil
}

// DeleteClaim removes a claim record.
func (m *MemoryLedger) DeleteClaim(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrLedgerClosed
	}

	delete(m.claims, key)
	return nil
}

// Close marks the ledger as closed.
func (m *MemoryLedger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck always succeeds until Close is called.
func (m *MemoryLedger) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrLedgerClosed
	}
	return nil
}
