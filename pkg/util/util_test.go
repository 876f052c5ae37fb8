package util

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBigInt(t *testing.T) {
	tests := []struct {
		input    string
		expected *big.Int
	}{
		{"123456789", big.NewInt(123456789)},
		{" 1000000000 ", big.NewInt(1000000000)},
		{"0x75bcd15", big.NewInt(123456789)},
		{"0X00ff", big.NewInt(255)},
		{"0x0", big.NewInt(0)},
		{"ff", big.NewInt(255)},
		{"-5", big.NewInt(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseBigInt(tt.input)
			require.NoError(t, err)
			assert.Zero(t, tt.expected.Cmp(v), "got %s", v)
		})
	}
}

func TestParseBigInt_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "0x", "0xzz", "12.5", "-ff", "hello"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseBigInt(input)
			assert.Error(t, err)
		})
	}
}

func TestDecodePrivateKeyHex(t *testing.T) {
	const hexKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	key, err := DecodePrivateKeyHex(hexKey)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	prefixed, err := DecodePrivateKeyHex("0x" + hexKey)
	require.NoError(t, err)
	assert.Equal(t, key, prefixed)

	_, err = DecodePrivateKeyHex("")
	require.Error(t, err)
	_, err = DecodePrivateKeyHex("0x1234")
	require.Error(t, err)
	_, err = DecodePrivateKeyHex("0x" + hexKey[:62] + "zz")
	require.Error(t, err)
}
