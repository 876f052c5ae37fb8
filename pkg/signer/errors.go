package signer

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey         = errors.New("private key is empty")
	ErrInvalidKeyLength = errors.New("private key must be 32 bytes")
	ErrZeroKey          = errors.New("private key is zero")
	ErrKeyOutOfRange    = errors.New("private key is not below the secp256k1 curve order")
	ErrInvalidDigest    = errors.New("digest must be 32 bytes")
)

// SigningError is returned when the key or digest handed to Sign is unusable.
type SigningError struct {
	Reason string
	Err    error
}

func (e *SigningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signing error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("signing error: %s", e.Reason)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// RecoveryError means neither recovery candidate of a fresh signature matched the signing
// key. It indicates an internal inconsistency and is not retried.
type RecoveryError struct {
	Reason string
	Err    error
}

func (e *RecoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recovery error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("recovery error: %s", e.Reason)
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}
