package persistence

import (
	"fmt"
	"sort"
	"strings"
)

// ClaimRecord is the persisted form of an issued claim signature. Numeric values are
// decimal strings, hashes and signature components are 0x hex.
type ClaimRecord struct {
	ChainID           string `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
	ClaimID           string `json:"claimId"`

	UserAddress string `json:"userAddress"`
	Amount      string `json:"amount"`
	Nonce       string `json:"nonce"`
	Deadline    string `json:"deadline"`

	Digest string `json:"digest"`
	Signer string `json:"signer"`
	V      uint8  `json:"v"`
	R      string `json:"r"`
	S      string `json:"s"`

	IssuedAt int64 `json:"issuedAt"`
}

// ClaimKey scopes a claim id to its chain and verifying contract.
func ClaimKey(chainID, verifyingContract, claimID string) string {
	return fmt.Sprintf("%s:%s:%s", chainID, strings.ToLower(verifyingContract), claimID)
}

func (c *ClaimRecord) Key() string {
	return ClaimKey(c.ChainID, c.VerifyingContract, c.ClaimID)
}

// Validate checks the fields required to key and compare a record.
func (c *ClaimRecord) Validate() error {
	if c.ChainID == "" || c.VerifyingContract == "" || c.ClaimID == "" {
		return fmt.Errorf("claim record requires chainId, verifyingContract and claimId")
	}
	if c.Digest == "" {
		return fmt.Errorf("claim record requires a digest")
	}
	return nil
}

// SameClaim reports whether two records describe the same payload signed by the same key.
func (c *ClaimRecord) SameClaim(other *ClaimRecord) bool {
	return other != nil &&
		strings.EqualFold(c.Digest, other.Digest) &&
		strings.EqualFold(c.Signer, other.Signer)
}

// SortClaims orders records by IssuedAt, then key.
func SortClaims(records []*ClaimRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].IssuedAt != records[j].IssuedAt {
			return records[i].IssuedAt < records[j].IssuedAt
		}
		return records[i].Key() < records[j].Key()
	})
}
