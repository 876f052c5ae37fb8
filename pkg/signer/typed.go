package signer

import (
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
)

// SignedTypedData carries the intermediate hashes alongside the signature.
type SignedTypedData struct {
	DomainSeparator eip712.Hash32
	StructHash      eip712.Hash32
	Digest          eip712.Digest
	Signature       *Signature
}

// BuildAndSign runs the full pipeline: domain separator, struct hash, digest, signature.
// Encoding errors surface before the key is touched.
func BuildAndSign(domain *eip712.Domain, message *eip712.Struct, key []byte) (*SignedTypedData, error) {
	domainSeparator, err := eip712.BuildDomainSeparator(domain)
	if err != nil {
		return nil, err
	}

	structHash, err := message.Hash()
	if err != nil {
		return nil, err
	}

	digest := eip712.AssembleDigest(domainSeparator, structHash)

	sig, err := SignDigest(digest, key)
	if err != nil {
		return nil, err
	}

	return &SignedTypedData{
		DomainSeparator: domainSeparator,
		StructHash:      structHash,
		Digest:          digest,
		Signature:       sig,
	}, nil
}
