package eip712

import "github.com/ethereum/go-ethereum/crypto"

// EIP-191 version byte followed by the EIP-712 structured data version.
var digestPrefix = [2]byte{0x19, 0x01}

// AssembleDigest returns keccak256(0x19 || 0x01 || domainSeparator || structHash).
func AssembleDigest(domainSeparator, structHash Hash32) Digest {
	return crypto.Keccak256Hash(digestPrefix[:], domainSeparator[:], structHash[:])
}

// TypedDataDigest computes the domain separator and struct hash and assembles the digest.
func TypedDataDigest(domain *Domain, message *Struct) (Digest, error) {
	domainSeparator, err := BuildDomainSeparator(domain)
	if err != nil {
		return Digest{}, err
	}
	structHash, err := message.Hash()
	if err != nil {
		return Digest{}, err
	}
	return AssembleDigest(domainSeparator, structHash), nil
}
