package eip712

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// HashType returns keccak256 of the UTF-8 bytes of the type signature. The signature is not
// parsed; malformed signatures hash like any other text.
func HashType(signature TypeSignature) (Hash32, error) {
	if signature == "" {
		return Hash32{}, newEncodingError("", "", "type signature is empty", nil)
	}
	return crypto.Keccak256Hash([]byte(signature)), nil
}

// HashStruct computes keccak256(typeHash || word(field_1) || ... || word(field_n)).
//
// The fields must be given in the same order as they appear in signature. That pairing is
// not checked here; use Struct to derive both from one field list.
func HashStruct(signature TypeSignature, fields []TypedField) (Hash32, error) {
	if signature == "" {
		return Hash32{}, newEncodingError("", "", "type signature is empty", nil)
	}

	// every value is encoded before anything is hashed
	words, err := EncodeFields(fields)
	if err != nil {
		return Hash32{}, err
	}

	typeHash, err := HashType(signature)
	if err != nil {
		return Hash32{}, err
	}

	return hashWords(append([][WordSize]byte{typeHash}, words...)...), nil
}

// EncodeData returns typeHash || encoded fields, the exact pre-image of HashStruct.
func EncodeData(signature TypeSignature, fields []TypedField) ([]byte, error) {
	words, err := EncodeFields(fields)
	if err != nil {
		return nil, err
	}
	typeHash, err := HashType(signature)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, WordSize*(len(words)+1))
	out = append(out, typeHash.Bytes()...)
	for i := range words {
		out = append(out, words[i][:]...)
	}
	return out, nil
}
