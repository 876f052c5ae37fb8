package util

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzParseBigIntRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(123456789))
	f.Add(uint64(1<<63 + 1))

	f.Fuzz(func(t *testing.T, n uint64) {
		v := new(big.Int).SetUint64(n)

		dec, err := ParseBigInt(v.String())
		require.NoError(t, err)
		require.Zero(t, v.Cmp(dec))

		hex, err := ParseBigInt("0x" + v.Text(16))
		require.NoError(t, err)
		require.Zero(t, v.Cmp(hex))
	})
}
