package claim

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/signer"
)

// ClaimTokenTypeName is the primary type the claim contract verifies.
const ClaimTokenTypeName = "claimToken"

// ClaimTokenRequest is the input to a claim signature.
type ClaimTokenRequest struct {
	UUID        *big.Int
	Amount      *big.Int
	UserAddress common.Address
	Nonce       *big.Int
	Deadline    *big.Int
}

// Validate checks that every numeric field is set and fits in a uint256.
func (r *ClaimTokenRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("claim request is nil")
	}
	for _, f := range []struct {
		name  string
		value *big.Int
	}{
		{"uuid", r.UUID},
		{"amount", r.Amount},
		{"nonce", r.Nonce},
		{"deadline", r.Deadline},
	} {
		if f.value == nil {
			return fmt.Errorf("claim %s is required", f.name)
		}
		if f.value.Sign() < 0 {
			return fmt.Errorf("claim %s must not be negative", f.name)
		}
		if f.value.BitLen() > 256 {
			return fmt.Errorf("claim %s exceeds 256 bits", f.name)
		}
	}
	if r.UserAddress == (common.Address{}) {
		return fmt.Errorf("claim userAddress must not be the zero address")
	}
	return nil
}

// ToStruct returns the claimToken message in the field order the contract hashes:
// claimToken(uint256 uuid,uint256 amount,address userAddress,uint256 nonce,uint deadline)
func (r *ClaimTokenRequest) ToStruct() *eip712.Struct {
	return eip712.NewStruct(ClaimTokenTypeName,
		eip712.TypedField{Name: "uuid", Type: eip712.FieldTypeUint256, Value: r.UUID},
		eip712.TypedField{Name: "amount", Type: eip712.FieldTypeUint256, Value: r.Amount},
		eip712.TypedField{Name: "userAddress", Type: eip712.FieldTypeAddress, Value: r.UserAddress},
		eip712.TypedField{Name: "nonce", Type: eip712.FieldTypeUint256, Value: r.Nonce},
		eip712.TypedField{Name: "deadline", Type: eip712.FieldTypeUint, Value: r.Deadline},
	)
}

// ClaimTokenResult is what a claimant submits to the contract alongside the request.
type ClaimTokenResult struct {
	UUID        string `json:"uuid"`
	Amount      string `json:"amount"`
	UserAddress string `json:"userAddress"`
	Deadline    string `json:"deadline"`
	V           uint8  `json:"v"`
	R           string `json:"r"`
	S           string `json:"s"`

	Digest string `json:"digest"`
	Signer string `json:"signer"`
}

// NewClaimTokenResult formats a signed request. V is the legacy 27/28 form.
func NewClaimTokenResult(req *ClaimTokenRequest, digest eip712.Digest, sig *signer.Signature, signerAddress common.Address) *ClaimTokenResult {
	return &ClaimTokenResult{
		UUID:        req.UUID.String(),
		Amount:      req.Amount.String(),
		UserAddress: req.UserAddress.Hex(),
		Deadline:    req.Deadline.String(),
		V:           sig.LegacyV(),
		R:           sig.RHex(),
		S:           sig.SHex(),
		Digest:      digest.Hex(),
		Signer:      signerAddress.Hex(),
	}
}

// Signature reassembles the 65-byte signature from the result.
func (r *ClaimTokenResult) Signature() (*signer.Signature, error) {
	rBytes, err := hexutil.Decode(r.R)
	if err != nil {
		return nil, fmt.Errorf("invalid r: %w", err)
	}
	sBytes, err := hexutil.Decode(r.S)
	if err != nil {
		return nil, fmt.Errorf("invalid s: %w", err)
	}
	if len(rBytes) != 32 || len(sBytes) != 32 {
		return nil, fmt.Errorf("r and s must be 32 bytes each")
	}

	raw := make([]byte, 0, signer.SignatureLength)
	raw = append(raw, rBytes...)
	raw = append(raw, sBytes...)
	raw = append(raw, r.V)
	return signer.SignatureFromBytes(raw)
}
