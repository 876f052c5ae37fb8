package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// hashWords streams the words through a single legacy Keccak-256 state instead of
// concatenating them first.
func hashWords(words ...[WordSize]byte) Hash32 {
	h := sha3.NewLegacyKeccak256()
	for i := range words {
		_, _ = h.Write(words[i][:])
	}
	return common.BytesToHash(h.Sum(nil))
}
