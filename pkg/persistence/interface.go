package persistence

import "errors"

var (
	// ErrClaimConflict is returned when a claim key is already recorded with a different digest.
	ErrClaimConflict = errors.New("claim already issued with a different digest")

	// ErrLedgerClosed is returned by every operation after Close.
	ErrLedgerClosed = errors.New("claim ledger is closed")
)

// IClaimLedger records issued claim signatures so a claim id is never signed for two
// different payloads. All implementations must be thread-safe.
type IClaimLedger interface {
	// RecordClaim stores the record under record.Key().
	// Recording the same key with the same digest again is a no-op.
	// Recording the same key with a different digest returns ErrClaimConflict.
	RecordClaim(record *ClaimRecord) error

	// LoadClaim retrieves a record by key.
	// Returns nil if the key doesn't exist, error only on storage failure.
	LoadClaim(key string) (*ClaimRecord, error)

	// ListClaims returns all records sorted by IssuedAt, then key.
	// Returns empty slice if none exist.
	ListClaims() ([]*ClaimRecord, error)

	// DeleteClaim removes a record. Idempotent.
	DeleteClaim(key string) error

	// Close cleanly shuts down the ledger. Idempotent.
	Close() error

	// HealthCheck verifies the ledger is operational.
	HealthCheck() error
}
