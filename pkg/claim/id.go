package claim

import (
	"math/big"

	"github.com/google/uuid"
)

// NewClaimID returns a random version 4 UUID as a uint256 claim id.
func NewClaimID() *big.Int {
	id := uuid.New()
	return new(big.Int).SetBytes(id[:])
}

// ClaimIDFromUUID converts a textual UUID to its uint256 claim id.
func ClaimIDFromUUID(s string) (*big.Int, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(id[:]), nil
}
