package signer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_Encodings(t *testing.T) {
	sig := &Signature{RecoveryID: 1}
	sig.R[31] = 0xaa
	sig.S[31] = 0xbb

	raw := sig.RawBytes()
	require.Len(t, raw, SignatureLength)
	assert.Equal(t, byte(1), raw[64])

	legacy := sig.Bytes()
	assert.Equal(t, byte(28), legacy[64])
	assert.Equal(t, raw[:64], legacy[:64])

	assert.Equal(t, uint8(28), sig.LegacyV())
	assert.Equal(t, big.NewInt(1*2+35+1), sig.EIP155V(big.NewInt(1)))
	assert.Equal(t, big.NewInt(97*2+35+1), sig.EIP155V(big.NewInt(97)))
}

func TestSignatureFromBytes(t *testing.T) {
	sig := &Signature{RecoveryID: 0}
	sig.R[0] = 1
	sig.S[0] = 2

	parsed, err := SignatureFromBytes(sig.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	parsed, err = SignatureFromBytes(sig.RawBytes())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)

	parsed, err = SignatureFromHex(sig.Hex())
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}

func TestSignatureFromBytes_Invalid(t *testing.T) {
	_, err := SignatureFromBytes(make([]byte, 64))
	require.Error(t, err)

	bad := make([]byte, 65)
	bad[64] = 2
	_, err = SignatureFromBytes(bad)
	require.Error(t, err)

	bad[64] = 29
	_, err = SignatureFromBytes(bad)
	require.Error(t, err)

	_, err = SignatureFromHex("zz")
	require.Error(t, err)
}
