package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseBigInt parses a numeric CLI or file argument. 0x-prefixed input is hex; anything
// else is decimal, falling back to unprefixed hex. Unparseable input is an error.
func ParseBigInt(input string) (*big.Int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, fmt.Errorf("empty numeric value")
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := hexutil.DecodeBig(strings.ToLower(s[:2]) + trimLeadingZeros(s[2:]))
		if err != nil {
			return nil, fmt.Errorf("invalid hex value %q: %w", input, err)
		}
		return v, nil
	}

	if v, ok := new(big.Int).SetString(s, 10); ok {
		return v, nil
	}
	if v, ok := new(big.Int).SetString(s, 16); ok && !strings.HasPrefix(s, "-") {
		return v, nil
	}
	return nil, fmt.Errorf("invalid numeric value %q", input)
}

// DecodePrivateKeyHex decodes a 32-byte hex private key with or without 0x prefix.
func DecodePrivateKeyHex(input string) ([]byte, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if len(s) != 66 { // 0x + 64 hex chars
		return nil, fmt.Errorf("private key must be 32 bytes (64 hex chars), got %d chars", len(s)-2)
	}

	key, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	return key, nil
}

// hexutil.DecodeBig rejects leading zero digits
func trimLeadingZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" && digits != "" {
		return "0"
	}
	return trimmed
}
