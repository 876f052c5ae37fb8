package eip712

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainTypeSignature is the type of the four-field EIP712Domain.
const DomainTypeSignature TypeSignature = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"

var (
	domainTypeHash = crypto.Keccak256Hash([]byte(DomainTypeSignature))

	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	addressType, _ = abi.NewType("address", "", nil)

	// typeHash, keccak(name), keccak(version), chainId, verifyingContract
	domainArguments = abi.Arguments{
		{Type: bytes32Type},
		{Type: bytes32Type},
		{Type: bytes32Type},
		{Type: uint256Type},
		{Type: addressType},
	}
)

// DomainTypeHash returns keccak256(DomainTypeSignature).
func DomainTypeHash() Hash32 {
	return domainTypeHash
}

// Domain identifies the signing context. It is immutable once built by NewDomain.
type Domain struct {
	name              string
	version           string
	chainID           *big.Int
	verifyingContract common.Address
}

// NewDomain validates and copies the domain fields.
func NewDomain(name, version string, chainID *big.Int, verifyingContract common.Address) (*Domain, error) {
	if chainID == nil {
		return nil, newEncodingError("chainId", FieldTypeUint256, "chain id is nil", nil)
	}
	if err := checkIntegerRange(chainID, 256, false); err != nil {
		return nil, newEncodingError("chainId", FieldTypeUint256, err.Error(), nil)
	}

	return &Domain{
		name:              name,
		version:           version,
		chainID:           new(big.Int).Set(chainID),
		verifyingContract: verifyingContract,
	}, nil
}

// NewDomainFromHex is NewDomain with a hex-encoded verifying contract.
func NewDomainFromHex(name, version string, chainID *big.Int, verifyingContract string) (*Domain, error) {
	if !common.IsHexAddress(verifyingContract) {
		return nil, newEncodingError("verifyingContract", FieldTypeAddress, fmt.Sprintf("invalid hex address %q", verifyingContract), nil)
	}
	return NewDomain(name, version, chainID, common.HexToAddress(verifyingContract))
}

func (d *Domain) Name() string {
	return d.name
}

func (d *Domain) Version() string {
	return d.version
}

// ChainID returns a copy of the chain id.
func (d *Domain) ChainID() *big.Int {
	return new(big.Int).Set(d.chainID)
}

func (d *Domain) VerifyingContract() common.Address {
	return d.verifyingContract
}

// Struct returns the domain as a generic EIP712Domain struct. Its Hash equals the
// domain separator.
func (d *Domain) Struct() *Struct {
	return NewStruct("EIP712Domain",
		TypedField{Name: "name", Type: FieldTypeString, Value: d.name},
		TypedField{Name: "version", Type: FieldTypeString, Value: d.version},
		TypedField{Name: "chainId", Type: FieldTypeUint256, Value: d.ChainID()},
		TypedField{Name: "verifyingContract", Type: FieldTypeAddress, Value: d.verifyingContract},
	)
}

// Separator is BuildDomainSeparator(d).
func (d *Domain) Separator() (Hash32, error) {
	return BuildDomainSeparator(d)
}

// BuildDomainSeparator hashes the ABI encoding of the five domain words.
func BuildDomainSeparator(d *Domain) (Hash32, error) {
	if d == nil || d.chainID == nil {
		return Hash32{}, newEncodingError("", "", "domain is not initialized", nil)
	}

	encoded, err := domainArguments.Pack(
		[32]byte(domainTypeHash),
		[32]byte(crypto.Keccak256Hash([]byte(d.name))),
		[32]byte(crypto.Keccak256Hash([]byte(d.version))),
		d.ChainID(),
		d.verifyingContract,
	)
	if err != nil {
		return Hash32{}, newEncodingError("", "", "failed to encode domain", err)
	}

	return crypto.Keccak256Hash(encoded), nil
}
