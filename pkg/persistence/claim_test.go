package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *ClaimRecord {
	return &ClaimRecord{
		ChainID:           "1",
		VerifyingContract: "0xddaAd340b0f1Ef65169Ae5E41A8b10776a75482d",
		ClaimID:           "123456789",
		UserAddress:       "0x10e3a183db48d854870feda31630bc1eb0ddd52a",
		Amount:            "1000000000",
		Nonce:             "1",
		Deadline:          "1698591527",
		Digest:            "0xdc0e52ce2eb5aa96af48cec4b31d6cd40c99eb76dbcb497d3319bacece5093a9",
		Signer:            "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		V:                 27,
		IssuedAt:          1700000000,
	}
}

func TestClaimRecord_Key(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, "1:0xddaad340b0f1ef65169ae5e41a8b10776a75482d:123456789", r.Key())
}

func TestClaimRecord_Validate(t *testing.T) {
	require.NoError(t, sampleRecord().Validate())

	r := sampleRecord()
	r.ClaimID = ""
	require.Error(t, r.Validate())

	r = sampleRecord()
	r.Digest = ""
	require.Error(t, r.Validate())
}

func TestClaimRecord_SameClaim(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.Digest = "0xDC0E52CE2EB5AA96AF48CEC4B31D6CD40C99EB76DBCB497D3319BACECE5093A9"
	b.Signer = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	assert.True(t, a.SameClaim(b))

	b.Signer = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	assert.False(t, a.SameClaim(b))

	b = sampleRecord()
	b.Digest = "0x00"
	assert.False(t, a.SameClaim(b))
	assert.False(t, a.SameClaim(nil))
}

func TestSerialization_RoundTrip(t *testing.T) {
	r := sampleRecord()
	data, err := MarshalClaimRecord(r)
	require.NoError(t, err)

	out, err := UnmarshalClaimRecord(data)
	require.NoError(t, err)
	assert.Equal(t, r, out)

	_, err = MarshalClaimRecord(nil)
	require.Error(t, err)
	_, err = UnmarshalClaimRecord(nil)
	require.Error(t, err)
	_, err = UnmarshalClaimRecord([]byte("{"))
	require.Error(t, err)
}

func TestSortClaims(t *testing.T) {
	a := sampleRecord()
	a.ClaimID = "2"
	b := sampleRecord()
	b.ClaimID = "1"
	c := sampleRecord()
	c.IssuedAt = 1

	records := []*ClaimRecord{a, b, c}
	SortClaims(records)
	assert.Equal(t, []*ClaimRecord{c, b, a}, records)
}
