package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/util"
)

// TypedDataField is one field of a typed-data request file. Values are kept as text and
// converted according to Type.
type TypedDataField struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

type TypedDataDomain struct {
	Name              string `json:"name" yaml:"name"`
	Version           string `json:"version" yaml:"version"`
	ChainID           string `json:"chainId" yaml:"chainId"`
	VerifyingContract string `json:"verifyingContract" yaml:"verifyingContract"`
}

// TypedDataFile describes a domain and one flat struct to sign, e.g.
//
//	domain:
//	  name: ClaimToken
//	  version: "1"
//	  chainId: "1"
//	  verifyingContract: "0xddaAd340b0f1Ef65169Ae5E41A8b10776a75482d"
//	primaryType: claimToken
//	fields:
//	  - {name: uuid, type: uint256, value: "123456789"}
type TypedDataFile struct {
	Domain      TypedDataDomain  `json:"domain" yaml:"domain"`
	PrimaryType string           `json:"primaryType" yaml:"primaryType"`
	Fields      []TypedDataField `json:"fields" yaml:"fields"`
}

// LoadTypedDataFile reads and validates a YAML (or JSON) typed-data file.
func LoadTypedDataFile(path string) (*TypedDataFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read typed data file: %w", err)
	}
	return ParseTypedData(data)
}

// ParseTypedData parses YAML (JSON is a subset) typed-data content.
func ParseTypedData(data []byte) (*TypedDataFile, error) {
	var td TypedDataFile
	if err := yaml.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("failed to parse typed data: %w", err)
	}
	if err := td.Validate(); err != nil {
		return nil, err
	}
	return &td, nil
}

func (td *TypedDataFile) Validate() error {
	var allErrors field.ErrorList

	domainPath := field.NewPath("domain")
	if td.Domain.Name == "" {
		allErrors = append(allErrors, field.Required(domainPath.Child("name"), "domain name is required"))
	}
	if td.Domain.Version == "" {
		allErrors = append(allErrors, field.Required(domainPath.Child("version"), "domain version is required"))
	}
	if td.Domain.ChainID == "" {
		allErrors = append(allErrors, field.Required(domainPath.Child("chainId"), "chain id is required"))
	}
	if td.Domain.VerifyingContract == "" {
		allErrors = append(allErrors, field.Required(domainPath.Child("verifyingContract"), "verifying contract is required"))
	}

	if td.PrimaryType == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("primaryType"), "primary type is required"))
	}

	fieldsPath := field.NewPath("fields")
	for i, f := range td.Fields {
		if f.Name == "" {
			allErrors = append(allErrors, field.Required(fieldsPath.Index(i).Child("name"), "field name is required"))
		}
		if f.Type == "" {
			allErrors = append(allErrors, field.Required(fieldsPath.Index(i).Child("type"), "field type is required"))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ToDomain builds the signing domain.
func (td *TypedDataFile) ToDomain() (*eip712.Domain, error) {
	chainID, err := util.ParseBigInt(td.Domain.ChainID)
	if err != nil {
		return nil, fmt.Errorf("invalid chain id: %w", err)
	}
	return eip712.NewDomainFromHex(td.Domain.Name, td.Domain.Version, chainID, td.Domain.VerifyingContract)
}

// ToStruct converts the fields, in file order, into a struct ready for hashing.
func (td *TypedDataFile) ToStruct() (*eip712.Struct, error) {
	fields := make([]eip712.TypedField, 0, len(td.Fields))
	for _, f := range td.Fields {
		var value interface{} = f.Value
		if eip712.FieldType(f.Type) == eip712.FieldTypeBool {
			b, err := strconv.ParseBool(f.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid bool value %q", f.Name, f.Value)
			}
			value = b
		}
		fields = append(fields, eip712.TypedField{
			Name:  f.Name,
			Type:  eip712.FieldType(f.Type),
			Value: value,
		})
	}
	return eip712.NewStruct(td.PrimaryType, fields...), nil
}
