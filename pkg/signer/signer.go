package signer

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 scalar.
	PrivateKeyLength = 32
	// DigestLength is the size of the hash being signed.
	DigestLength = 32
)

var (
	secp256k1N     = new(big.Int).Set(crypto.S256().Params().N)
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// SignDigest signs a typed-data digest. See Sign.
func SignDigest(digest eip712.Digest, key []byte) (*Signature, error) {
	return Sign(digest[:], key)
}

// Sign produces a deterministic (RFC 6979), low-S secp256k1 signature over digest.
//
// key is the raw 32-byte private scalar. It is copied and the copy is cleared before Sign
// returns; the caller keeps ownership of the original slice.
func Sign(digest []byte, key []byte) (*Signature, error) {
	if len(digest) != DigestLength {
		return nil, &SigningError{Reason: fmt.Sprintf("got %d bytes", len(digest)), Err: ErrInvalidDigest}
	}

	privateKey, err := toPrivateKey(key)
	if err != nil {
		return nil, err
	}
	defer zeroKey(privateKey)

	raw, err := crypto.Sign(digest, privateKey)
	if err != nil {
		return nil, &SigningError{Reason: "ecdsa signing failed", Err: err}
	}

	sig := &Signature{}
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:64])
	normalizeLowS(sig)

	recoveryID, err := findRecoveryID(digest, sig, &privateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	sig.RecoveryID = recoveryID

	return sig, nil
}

// findRecoveryID tests both candidate public keys recoverable from (r, s) against the
// signer's own public key.
func findRecoveryID(digest []byte, sig *Signature, publicKey *ecdsa.PublicKey) (byte, error) {
	expected := crypto.FromECDSAPub(publicKey)

	candidate := sig.RawBytes()
	for id := byte(0); id <= 1; id++ {
		candidate[64] = id
		recovered, err := crypto.Ecrecover(digest, candidate)
		if err != nil {
			continue
		}
		if bytes.Equal(recovered, expected) {
			return id, nil
		}
	}

	return 0, &RecoveryError{Reason: "no recovery candidate matches the signing key"}
}

// normalizeLowS folds s into the lower half of the curve order. The recovery id is derived
// afterwards, so it always matches the emitted s.
func normalizeLowS(sig *Signature) {
	s := new(big.Int).SetBytes(sig.S[:])
	if s.Cmp(secp256k1HalfN) <= 0 {
		return
	}
	s.Sub(secp256k1N, s)
	sig.S = [32]byte{}
	s.FillBytes(sig.S[:])
}

// IsLowS reports whether s is in the lower half of the curve order.
func IsLowS(sig *Signature) bool {
	return new(big.Int).SetBytes(sig.S[:]).Cmp(secp256k1HalfN) <= 0
}

// ValidatePrivateKey checks that key is a usable secp256k1 scalar: 32 bytes, non-zero and
// below the curve order.
func ValidatePrivateKey(key []byte) error {
	if len(key) == 0 {
		return &SigningError{Reason: "no private key supplied", Err: ErrEmptyKey}
	}
	if len(key) != PrivateKeyLength {
		return &SigningError{Reason: fmt.Sprintf("got %d bytes", len(key)), Err: ErrInvalidKeyLength}
	}

	k := new(big.Int).SetBytes(key)
	defer clear(k.Bits())

	if k.Sign() == 0 {
		return &SigningError{Reason: "refusing to sign with an all-zero key", Err: ErrZeroKey}
	}
	if k.Cmp(secp256k1N) >= 0 {
		return &SigningError{Reason: "scalar exceeds curve order", Err: ErrKeyOutOfRange}
	}
	return nil
}

func toPrivateKey(key []byte) (*ecdsa.PrivateKey, error) {
	if err := ValidatePrivateKey(key); err != nil {
		return nil, err
	}

	buf := make([]byte, PrivateKeyLength)
	copy(buf, key)
	defer clear(buf)

	privateKey, err := crypto.ToECDSA(buf)
	if err != nil {
		return nil, &SigningError{Reason: "invalid private key", Err: err}
	}
	return privateKey, nil
}

func zeroKey(k *ecdsa.PrivateKey) {
	if k == nil || k.D == nil {
		return
	}
	clear(k.D.Bits())
}

// PublicKeyFromPrivateKey derives the public key of a raw private key.
func PublicKeyFromPrivateKey(key []byte) (*ecdsa.PublicKey, error) {
	privateKey, err := toPrivateKey(key)
	if err != nil {
		return nil, err
	}
	defer zeroKey(privateKey)

	publicKey := privateKey.PublicKey
	return &publicKey, nil
}

// AddressFromPrivateKey derives the Ethereum address of a raw private key.
func AddressFromPrivateKey(key []byte) (common.Address, error) {
	publicKey, err := PublicKeyFromPrivateKey(key)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*publicKey), nil
}

// RecoverPublicKey returns the public key that produced sig over digest.
func RecoverPublicKey(digest []byte, sig *Signature) (*ecdsa.PublicKey, error) {
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("invalid digest length: expected %d bytes, got %d", DigestLength, len(digest))
	}
	if sig == nil {
		return nil, fmt.Errorf("signature is nil")
	}

	publicKey, err := crypto.SigToPub(digest, sig.RawBytes())
	if err != nil {
		return nil, fmt.Errorf("failed to recover public key: %w", err)
	}
	return publicKey, nil
}

// RecoverAddress returns the address that produced sig over digest.
func RecoverAddress(digest []byte, sig *Signature) (common.Address, error) {
	publicKey, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*publicKey), nil
}

// Verify checks sig over digest against publicKey. High-S signatures are rejected.
func Verify(digest []byte, sig *Signature, publicKey *ecdsa.PublicKey) bool {
	if sig == nil || publicKey == nil || len(digest) != DigestLength {
		return false
	}
	return crypto.VerifySignature(crypto.FromECDSAPub(publicKey), digest, sig.RawBytes()[:64])
}
