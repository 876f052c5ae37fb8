package eip712

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// WordSize is the width of every encoded field.
const WordSize = 32

// EncodeWord encodes a single field value into its 32-byte word. Integers are two's
// complement big-endian, addresses occupy the low 20 bytes, bytesN are right padded,
// string and bytes values are replaced by their keccak256 hash.
func EncodeWord(field TypedField) ([WordSize]byte, error) {
	var word [WordSize]byte

	typ, err := abi.NewType(field.Type.canonical(), "", nil)
	if err != nil {
		return word, newEncodingError(field.Name, field.Type, "unsupported field type", err)
	}

	switch typ.T {
	case abi.UintTy, abi.IntTy:
		if typ.Size < 8 || typ.Size > 256 || typ.Size%8 != 0 {
			return word, newEncodingError(field.Name, field.Type, fmt.Sprintf("invalid integer width %d", typ.Size), nil)
		}
		value, err := toBigInt(field.Value)
		if err != nil {
			return word, newEncodingError(field.Name, field.Type, "invalid integer value", err)
		}
		if err := checkIntegerRange(value, typ.Size, typ.T == abi.IntTy); err != nil {
			return word, newEncodingError(field.Name, field.Type, err.Error(), nil)
		}
		// U256Bytes mutates its argument
		copy(word[:], math.U256Bytes(new(big.Int).Set(value)))

	case abi.AddressTy:
		addr, err := toAddress(field.Value)
		if err != nil {
			return word, newEncodingError(field.Name, field.Type, "invalid address value", err)
		}
		copy(word[WordSize-common.AddressLength:], addr.Bytes())

	case abi.BoolTy:
		b, ok := field.Value.(bool)
		if !ok {
			return word, newEncodingError(field.Name, field.Type, fmt.Sprintf("expected bool, got %T", field.Value), nil)
		}
		if b {
			word[WordSize-1] = 1
		}

	case abi.FixedBytesTy:
		if typ.Size < 1 || typ.Size > WordSize {
			return word, newEncodingError(field.Name, field.Type, fmt.Sprintf("invalid bytes width %d", typ.Size), nil)
		}
		raw, err := toFixedBytes(field.Value, typ.Size)
		if err != nil {
			return word, newEncodingError(field.Name, field.Type, "invalid fixed bytes value", err)
		}
		copy(word[:], raw)

	case abi.StringTy:
		s, ok := field.Value.(string)
		if !ok {
			return word, newEncodingError(field.Name, field.Type, fmt.Sprintf("expected string, got %T", field.Value), nil)
		}
		word = crypto.Keccak256Hash([]byte(s))

	case abi.BytesTy:
		raw, err := toBytes(field.Value)
		if err != nil {
			return word, newEncodingError(field.Name, field.Type, "invalid bytes value", err)
		}
		word = crypto.Keccak256Hash(raw)

	default:
		return word, newEncodingError(field.Name, field.Type, "only fixed-width primitive types are supported", nil)
	}

	return word, nil
}

// EncodeFields encodes every field in order. No partial result is returned on error.
func EncodeFields(fields []TypedField) ([][WordSize]byte, error) {
	words := make([][WordSize]byte, 0, len(fields))
	for _, f := range fields {
		w, err := EncodeWord(f)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

func checkIntegerRange(v *big.Int, bits int, signed bool) error {
	if !signed {
		if v.Sign() < 0 {
			return fmt.Errorf("negative value %s for unsigned type", v.String())
		}
		if v.BitLen() > bits {
			return fmt.Errorf("value %s overflows %d bits", v.String(), bits)
		}
		return nil
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	minValue := new(big.Int).Neg(limit)
	if v.Cmp(minValue) < 0 || v.Cmp(limit) >= 0 {
		return fmt.Errorf("value %s out of range for int%d", v.String(), bits)
	}
	return nil
}

func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("value is nil")
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("value is nil")
		}
		return v, nil
	case big.Int:
		return &v, nil
	case *math.HexOrDecimal256:
		if v == nil {
			return nil, fmt.Errorf("value is nil")
		}
		return (*big.Int)(v), nil
	case string:
		return parseBigInt(v)
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported integer value type %T", value)
	}
}

// parseBigInt accepts decimal or 0x-prefixed hex, with an optional leading minus before
// the prefix.
func parseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return nil, fmt.Errorf("cannot parse %q as an integer", s)
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("cannot parse %q as an integer", s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

func toAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		if v == nil {
			return common.Address{}, fmt.Errorf("address is nil")
		}
		return *v, nil
	case [common.AddressLength]byte:
		return common.Address(v), nil
	case []byte:
		if len(v) != common.AddressLength {
			return common.Address{}, fmt.Errorf("address must be %d bytes, got %d", common.AddressLength, len(v))
		}
		return common.BytesToAddress(v), nil
	case string:
		if !common.IsHexAddress(v) {
			return common.Address{}, fmt.Errorf("invalid hex address %q", v)
		}
		return common.HexToAddress(v), nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address value type %T", value)
	}
}

func toFixedBytes(value interface{}, size int) ([]byte, error) {
	var raw []byte
	switch v := value.(type) {
	case common.Hash:
		raw = v.Bytes()
	case *common.Hash:
		if v == nil {
			return nil, fmt.Errorf("hash is nil")
		}
		raw = v.Bytes()
	case []byte:
		raw = v
	case string:
		decoded, err := hexutil.Decode(v)
		if err != nil {
			return nil, err
		}
		raw = decoded
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("unsupported fixed bytes value type %T", value)
		}
		raw = make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(raw), rv)
	}

	if len(raw) != size {
		return nil, fmt.Errorf("expected %d bytes, got %d", size, len(raw))
	}
	return common.RightPadBytes(raw, WordSize), nil
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	case string:
		return hexutil.Decode(v)
	default:
		return nil, fmt.Errorf("unsupported bytes value type %T", value)
	}
}
