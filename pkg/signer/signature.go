package signer

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// SignatureLength is r || s || v.
	SignatureLength = 65

	legacyVOffset = 27
)

// Signature is a recoverable secp256k1 signature. RecoveryID is the raw 0/1 form.
type Signature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// LegacyV returns the recovery id as 27 or 28, the form expected by solidity ecrecover.
func (s *Signature) LegacyV() uint8 {
	return s.RecoveryID + legacyVOffset
}

// EIP155V returns chainID*2 + 35 + recoveryID.
func (s *Signature) EIP155V(chainID *big.Int) *big.Int {
	v := new(big.Int).Mul(chainID, big.NewInt(2))
	v.Add(v, big.NewInt(35))
	return v.Add(v, big.NewInt(int64(s.RecoveryID)))
}

// Bytes returns r || s || v with v in legacy 27/28 form.
func (s *Signature) Bytes() []byte {
	out := s.RawBytes()
	out[64] = s.LegacyV()
	return out
}

// RawBytes returns r || s || v with v in raw 0/1 form, as go-ethereum's crypto package expects.
func (s *Signature) RawBytes() []byte {
	out := make([]byte, SignatureLength)
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.RecoveryID
	return out
}

// Hex returns the 0x-prefixed legacy encoding.
func (s *Signature) Hex() string {
	return hexutil.Encode(s.Bytes())
}

func (s *Signature) RHex() string {
	return hexutil.Encode(s.R[:])
}

func (s *Signature) SHex() string {
	return hexutil.Encode(s.S[:])
}

// SignatureFromBytes parses a 65-byte r || s || v signature with v in 0/1 or 27/28 form.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, fmt.Errorf("invalid signature length: expected %d bytes, got %d", SignatureLength, len(b))
	}

	v := b[64]
	if v >= legacyVOffset {
		v -= legacyVOffset
	}
	if v > 1 {
		return nil, fmt.Errorf("invalid recovery id %d", b[64])
	}

	sig := &Signature{RecoveryID: v}
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:64])
	return sig, nil
}

// SignatureFromHex parses a 0x-prefixed hex signature.
func SignatureFromHex(s string) (*Signature, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature hex: %w", err)
	}
	return SignatureFromBytes(raw)
}
