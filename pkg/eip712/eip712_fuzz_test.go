package eip712

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/require"
)

func FuzzEncodeWord_Uint256(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add(make([]byte, 32))
	f.Add(make([]byte, 33))

	f.Fuzz(func(t *testing.T, raw []byte) {
		if len(raw) > 64 {
			raw = raw[:64]
		}
		v := new(big.Int).SetBytes(raw)

		w, err := EncodeWord(TypedField{Name: "v", Type: FieldTypeUint256, Value: v})
		if v.BitLen() > 256 {
			require.Error(t, err)
			return
		}
		require.NoError(t, err)
		require.Equal(t, math.PaddedBigBytes(v, 32), w[:])
		require.Zero(t, new(big.Int).SetBytes(w[:]).Cmp(v))
	})
}

// A single-bit change anywhere in a field value changes the struct hash.
func FuzzHashStruct_BitFlip(f *testing.F) {
	f.Add([]byte("seed-value-000000000000000000000"), uint8(0))
	f.Add(make([]byte, 32), uint8(255))

	f.Fuzz(func(t *testing.T, raw []byte, bit uint8) {
		var h common.Hash
		copy(h[:], raw)

		flipped := h
		flipped[bit/8] ^= 1 << (bit % 8)

		s1 := NewStruct("Blob", TypedField{Name: "h", Type: FieldTypeBytes32, Value: h})
		s2 := NewStruct("Blob", TypedField{Name: "h", Type: FieldTypeBytes32, Value: flipped})

		h1, err := s1.Hash()
		require.NoError(t, err)
		h2, err := s2.Hash()
		require.NoError(t, err)
		require.NotEqual(t, h1, h2)
	})
}
