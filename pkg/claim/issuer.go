package claim

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/signer"
)

// Issuer signs claimToken messages for one domain and, when a ledger is configured,
// refuses to sign a claim id twice for different payloads.
type Issuer struct {
	domain *eip712.Domain
	ledger persistence.IClaimLedger
	logger *zap.Logger
	now    func() time.Time
}

// NewIssuer creates an issuer. ledger may be nil, in which case nothing is recorded.
func NewIssuer(domain *eip712.Domain, ledger persistence.IClaimLedger, logger *zap.Logger) (*Issuer, error) {
	if domain == nil {
		return nil, fmt.Errorf("domain is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Issuer{
		domain: domain,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (i *Issuer) Domain() *eip712.Domain {
	return i.domain
}

// Digest returns the digest the contract will recompute for req.
func (i *Issuer) Digest(req *ClaimTokenRequest) (eip712.Digest, error) {
	if err := req.Validate(); err != nil {
		return eip712.Digest{}, err
	}
	return eip712.TypedDataDigest(i.domain, req.ToStruct())
}

func (i *Issuer) claimKey(req *ClaimTokenRequest) string {
	return persistence.ClaimKey(i.domain.ChainID().String(), i.domain.VerifyingContract().Hex(), req.UUID.String())
}

// Issue signs req with key, checks the signature recovers to the key's address and
// records the claim. Issuing an already recorded claim with the same digest and signer
// returns the stored result.
func (i *Issuer) Issue(req *ClaimTokenRequest, key []byte) (*ClaimTokenResult, error) {
	digest, err := i.Digest(req)
	if err != nil {
		return nil, err
	}

	expected, err := signer.AddressFromPrivateKey(key)
	if err != nil {
		return nil, err
	}

	claimKey := i.claimKey(req)
	if i.ledger != nil {
		existing, err := i.ledger.LoadClaim(claimKey)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to look up claim %s", claimKey)
		}
		if existing != nil {
			if !strings.EqualFold(existing.Digest, digest.Hex()) {
				return nil, errors.Wrapf(persistence.ErrClaimConflict, "claim %s", claimKey)
			}
			if !strings.EqualFold(existing.Signer, expected.Hex()) {
				return nil, errors.Wrapf(persistence.ErrClaimConflict, "claim %s was issued by %s", claimKey, existing.Signer)
			}
			i.logger.Sugar().Infow("Claim already issued, returning recorded signature", "claim", claimKey)
			return resultFromRecord(existing), nil
		}
	}

	signed, err := signer.BuildAndSign(i.domain, req.ToStruct(), key)
	if err != nil {
		return nil, err
	}

	recovered, err := signer.RecoverAddress(signed.Digest.Bytes(), signed.Signature)
	if err != nil {
		return nil, err
	}
	if recovered != expected {
		return nil, &signer.SigningError{
			Reason: fmt.Sprintf("signature recovers to %s, expected %s", recovered.Hex(), expected.Hex()),
		}
	}

	result := NewClaimTokenResult(req, signed.Digest, signed.Signature, expected)
	i.logger.Sugar().Debugw("Signed claim",
		"claim", claimKey,
		"digest", result.Digest,
		"signer", result.Signer,
	)

	if i.ledger == nil {
		return result, nil
	}

	record := i.toRecord(req, result)
	if err := i.ledger.RecordClaim(record); err != nil {
		return nil, errors.Wrapf(err, "failed to record claim %s", claimKey)
	}

	// another writer may have recorded the same payload first
	stored, err := i.ledger.LoadClaim(claimKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reload claim %s", claimKey)
	}
	if stored == nil {
		return result, nil
	}
	return resultFromRecord(stored), nil
}

func (i *Issuer) toRecord(req *ClaimTokenRequest, result *ClaimTokenResult) *persistence.ClaimRecord {
	return &persistence.ClaimRecord{
		ChainID:           i.domain.ChainID().String(),
		VerifyingContract: i.domain.VerifyingContract().Hex(),
		ClaimID:           result.UUID,
		UserAddress:       result.UserAddress,
		Amount:            result.Amount,
		Nonce:             req.Nonce.String(),
		Deadline:          result.Deadline,
		Digest:            result.Digest,
		Signer:            result.Signer,
		V:                 result.V,
		R:                 result.R,
		S:                 result.S,
		IssuedAt:          i.now().Unix(),
	}
}

func resultFromRecord(r *persistence.ClaimRecord) *ClaimTokenResult {
	return &ClaimTokenResult{
		UUID:        r.ClaimID,
		Amount:      r.Amount,
		UserAddress: r.UserAddress,
		Deadline:    r.Deadline,
		V:           r.V,
		R:           r.R,
		S:           r.S,
		Digest:      r.Digest,
		Signer:      r.Signer,
	}
}
