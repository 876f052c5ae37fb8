package eip712

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(t *testing.T, f TypedField) [WordSize]byte {
	t.Helper()
	w, err := EncodeWord(f)
	require.NoError(t, err)
	return w
}

func TestEncodeWord_Integers(t *testing.T) {
	expected := common.LeftPadBytes([]byte{0x07, 0x5b, 0xcd, 0x15}, 32)

	values := []interface{}{
		big.NewInt(123456789),
		*big.NewInt(123456789),
		(*math.HexOrDecimal256)(big.NewInt(123456789)),
		"123456789",
		"0x75bcd15",
		int(123456789),
		int64(123456789),
		uint64(123456789),
		uint32(123456789),
	}
	for _, v := range values {
		w := word(t, TypedField{Name: "v", Type: FieldTypeUint256, Value: v})
		assert.Equal(t, expected, w[:], "value %T", v)
	}

	// uint is the uint256 alias
	w := word(t, TypedField{Name: "v", Type: FieldTypeUint, Value: 1})
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), w[:])

	maxUint := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	w = word(t, TypedField{Name: "v", Type: FieldTypeUint256, Value: maxUint})
	assert.Equal(t, math.PaddedBigBytes(maxUint, 32), w[:])
}

func TestEncodeWord_SignedIntegers(t *testing.T) {
	w := word(t, TypedField{Name: "v", Type: FieldTypeInt, Value: -1})
	for _, b := range w {
		assert.Equal(t, byte(0xff), b)
	}

	w = word(t, TypedField{Name: "v", Type: "int8", Value: int8(-128)})
	assert.Equal(t, math.U256Bytes(big.NewInt(-128)), w[:])

	w = word(t, TypedField{Name: "v", Type: "int64", Value: "-0x10"})
	assert.Equal(t, math.U256Bytes(big.NewInt(-16)), w[:])
}

func TestEncodeWord_MalformedIntegerText(t *testing.T) {
	inputs := []string{"", "-", "0x", "-0x", "0x-5", "0x+5", "+5", "--5", "-+5", "0x0x5", "12a", "0xzz"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			for _, typ := range []FieldType{"int256", FieldTypeUint256} {
				_, err := EncodeWord(TypedField{Name: "v", Type: typ, Value: input})
				require.Error(t, err, "type %s", typ)

				var encErr *EncodingError
				assert.ErrorAs(t, err, &encErr)
			}
		})
	}
}

func TestEncodeWord_Address(t *testing.T) {
	addr := common.HexToAddress(claimUser)
	expected := common.LeftPadBytes(addr.Bytes(), 32)

	for _, v := range []interface{}{addr, &addr, [20]byte(addr), addr.Bytes(), claimUser} {
		w := word(t, TypedField{Name: "a", Type: FieldTypeAddress, Value: v})
		assert.Equal(t, expected, w[:], "value %T", v)
		assert.Equal(t, make([]byte, 12), w[:12])
	}
}

func TestEncodeWord_FixedBytes(t *testing.T) {
	h := crypto.Keccak256Hash([]byte("payload"))
	for _, v := range []interface{}{h, &h, [32]byte(h), h.Bytes(), h.Hex()} {
		w := word(t, TypedField{Name: "h", Type: FieldTypeBytes32, Value: v})
		assert.Equal(t, h.Bytes(), w[:], "value %T", v)
	}

	w := word(t, TypedField{Name: "sel", Type: "bytes4", Value: [4]byte{0xde, 0xad, 0xbe, 0xef}})
	assert.Equal(t, common.RightPadBytes([]byte{0xde, 0xad, 0xbe, 0xef}, 32), w[:])
}

func TestEncodeWord_DynamicAtoms(t *testing.T) {
	w := word(t, TypedField{Name: "s", Type: FieldTypeString, Value: "ClaimToken"})
	assert.Equal(t, crypto.Keccak256([]byte("ClaimToken")), w[:])

	w = word(t, TypedField{Name: "b", Type: FieldTypeBytes, Value: []byte{1, 2, 3}})
	assert.Equal(t, crypto.Keccak256([]byte{1, 2, 3}), w[:])

	w = word(t, TypedField{Name: "b", Type: FieldTypeBytes, Value: "0x010203"})
	assert.Equal(t, crypto.Keccak256([]byte{1, 2, 3}), w[:])
}

func TestEncodeWord_Bool(t *testing.T) {
	w := word(t, TypedField{Name: "b", Type: FieldTypeBool, Value: true})
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), w[:])

	w = word(t, TypedField{Name: "b", Type: FieldTypeBool, Value: false})
	assert.Equal(t, make([]byte, 32), w[:])
}

func TestEncodeFields_NoPartialResult(t *testing.T) {
	words, err := EncodeFields([]TypedField{
		{Name: "ok", Type: FieldTypeUint256, Value: 1},
		{Name: "bad", Type: FieldTypeUint256, Value: -1},
	})
	require.Error(t, err)
	assert.Nil(t, words)
}

// Cross-check against go-ethereum's reference EIP-712 encoder.
func TestTypedDataDigest_MatchesApitypes(t *testing.T) {
	tag := crypto.Keccak256Hash([]byte("tag"))
	payload := []byte{0xca, 0xfe}

	s := NewStruct("Order",
		TypedField{Name: "maker", Type: FieldTypeAddress, Value: common.HexToAddress(claimUser)},
		TypedField{Name: "salt", Type: FieldTypeUint256, Value: big.NewInt(123456789)},
		TypedField{Name: "tag", Type: FieldTypeBytes32, Value: tag},
		TypedField{Name: "active", Type: FieldTypeBool, Value: true},
		TypedField{Name: "memo", Type: FieldTypeString, Value: "hello"},
		TypedField{Name: "side", Type: "uint8", Value: 1},
		TypedField{Name: "payload", Type: FieldTypeBytes, Value: payload},
	)

	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": []apitypes.Type{
				{Name: "maker", Type: "address"},
				{Name: "salt", Type: "uint256"},
				{Name: "tag", Type: "bytes32"},
				{Name: "active", Type: "bool"},
				{Name: "memo", Type: "string"},
				{Name: "side", Type: "uint8"},
				{Name: "payload", Type: "bytes"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              "ClaimToken",
			Version:           "1",
			ChainId:           (*math.HexOrDecimal256)(big.NewInt(1)),
			VerifyingContract: claimContract,
		},
		Message: apitypes.TypedDataMessage{
			"maker":   claimUser,
			"salt":    (*math.HexOrDecimal256)(big.NewInt(123456789)),
			"tag":     tag.Hex(),
			"active":  true,
			"memo":    "hello",
			"side":    (*math.HexOrDecimal256)(big.NewInt(1)),
			"payload": hexutil.Encode(payload),
		},
	}

	refDomain, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	require.NoError(t, err)
	ds, err := BuildDomainSeparator(claimDomain(t))
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(refDomain), ds)

	refStruct, err := td.HashStruct("Order", td.Message)
	require.NoError(t, err)
	sh, err := s.Hash()
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(refStruct), sh)

	refDigest, _, err := apitypes.TypedDataAndHash(td)
	require.NoError(t, err)
	digest, err := TypedDataDigest(claimDomain(t), s)
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(refDigest), digest)
}

func TestHashWords_MatchesKeccak(t *testing.T) {
	a := [WordSize]byte{1}
	b := [WordSize]byte{2}
	assert.Equal(t, crypto.Keccak256Hash(a[:], b[:]), hashWords(a, b))
	assert.Equal(t, crypto.Keccak256Hash(), hashWords())
}
