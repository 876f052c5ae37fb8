package eip712

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Hash32 is a 32-byte hash compared only by byte equality.
type Hash32 = common.Hash

// Digest is the final signing hash handed to the signer.
type Digest = Hash32

// TypeSignature is the canonical encoding of a struct type, e.g. "Mail(address from,string contents)".
type TypeSignature string

func (t TypeSignature) String() string {
	return string(t)
}

// FieldType is the solidity spelling of a field's type as it appears in the type signature.
type FieldType string

const (
	FieldTypeUint256 FieldType = "uint256"
	FieldTypeUint    FieldType = "uint"
	FieldTypeInt256  FieldType = "int256"
	FieldTypeInt     FieldType = "int"
	FieldTypeAddress FieldType = "address"
	FieldTypeBool    FieldType = "bool"
	FieldTypeBytes32 FieldType = "bytes32"
	FieldTypeString  FieldType = "string"
	FieldTypeBytes   FieldType = "bytes"
)

func (f FieldType) String() string {
	return string(f)
}

// canonical maps the solidity aliases onto their sized form. The signature string keeps the
// alias as written; only the encoder sees the canonical name.
func (f FieldType) canonical() string {
	switch f {
	case FieldTypeUint:
		return string(FieldTypeUint256)
	case FieldTypeInt:
		return string(FieldTypeInt256)
	default:
		return string(f)
	}
}

// TypedField is a single named, typed value of a struct. Order within a struct is part of
// the encoding.
type TypedField struct {
	Name  string
	Type  FieldType
	Value interface{}
}

// Struct pairs a struct name with its ordered fields. The type signature and the encoded
// values are both derived from Fields, so they cannot disagree on order.
type Struct struct {
	Name   string
	Fields []TypedField
}

// NewStruct creates a Struct with the given fields in declaration order.
func NewStruct(name string, fields ...TypedField) *Struct {
	return &Struct{
		Name:   name,
		Fields: fields,
	}
}

// TypeSignature renders Name(type1 name1,type2 name2,...).
func (s *Struct) TypeSignature() TypeSignature {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(f.Type))
		b.WriteByte(' ')
		b.WriteString(f.Name)
	}
	b.WriteByte(')')
	return TypeSignature(b.String())
}

// TypeHash returns keccak256 of the struct's type signature.
func (s *Struct) TypeHash() (Hash32, error) {
	if err := s.validate(); err != nil {
		return Hash32{}, err
	}
	return HashType(s.TypeSignature())
}

// Hash returns the EIP-712 struct hash of s.
func (s *Struct) Hash() (Hash32, error) {
	if err := s.validate(); err != nil {
		return Hash32{}, err
	}
	return HashStruct(s.TypeSignature(), s.Fields)
}

// Field returns the field with the given name.
func (s *Struct) Field(name string) (TypedField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return TypedField{}, false
}

func (s *Struct) validate() error {
	if s == nil {
		return newEncodingError("", "", "struct is nil", nil)
	}
	if s.Name == "" {
		return newEncodingError("", "", "struct name is empty", nil)
	}
	if strings.ContainsAny(s.Name, "(), ") {
		return newEncodingError("", "", "struct name contains reserved characters: "+s.Name, nil)
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return newEncodingError(f.Name, f.Type, "field name is empty", nil)
		}
		if strings.ContainsAny(f.Name, "(), ") {
			return newEncodingError(f.Name, f.Type, "field name contains reserved characters", nil)
		}
		if _, ok := seen[f.Name]; ok {
			return newEncodingError(f.Name, f.Type, "duplicate field name", nil)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
