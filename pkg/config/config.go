package config

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
)

// Environment variable names for the claim signer
const (
	EnvPrivateKey        = "CLAIM_SIGNER_PRIVATE_KEY"
	EnvChainID           = "CLAIM_SIGNER_CHAIN_ID"
	EnvDomainName        = "CLAIM_SIGNER_DOMAIN_NAME"
	EnvDomainVersion     = "CLAIM_SIGNER_DOMAIN_VERSION"
	EnvVerifyingContract = "CLAIM_SIGNER_VERIFYING_CONTRACT"
	EnvLedger            = "CLAIM_SIGNER_LEDGER"
	EnvLedgerPath        = "CLAIM_SIGNER_LEDGER_PATH"
	EnvRedisAddress      = "CLAIM_SIGNER_REDIS_ADDRESS"
	EnvRedisPassword     = "CLAIM_SIGNER_REDIS_PASSWORD"
	EnvRedisDB           = "CLAIM_SIGNER_REDIS_DB"
	EnvLedgerKeyPrefix   = "CLAIM_SIGNER_LEDGER_KEY_PREFIX"
	EnvDebug             = "CLAIM_SIGNER_DEBUG"
)

const (
	DefaultDomainName    = "ClaimToken"
	DefaultDomainVersion = "1"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_BSCTestnet      ChainId = 97
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_BSCTestnet      ChainName = "bsc-testnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_BSCTestnet:      ChainName_BSCTestnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_BSCTestnet:      ChainId_BSCTestnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

func (c ChainId) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(c))
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (bsc-testnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_BSCTestnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

type LedgerType string

const (
	LedgerType_None   LedgerType = "none"
	LedgerType_Memory LedgerType = "memory"
	LedgerType_Badger LedgerType = "badger"
	LedgerType_Redis  LedgerType = "redis"
)

// DomainConfig describes the EIP-712 domain claims are signed under.
type DomainConfig struct {
	Name              string  `json:"name" yaml:"name"`
	Version           string  `json:"version" yaml:"version"`
	ChainID           ChainId `json:"chainId" yaml:"chainId"`
	VerifyingContract string  `json:"verifyingContract" yaml:"verifyingContract"`
}

func (dc *DomainConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	if dc.Name == "" {
		allErrors = append(allErrors, field.Required(path.Child("name"), "domain name is required"))
	}
	if dc.Version == "" {
		allErrors = append(allErrors, field.Required(path.Child("version"), "domain version is required"))
	}
	if dc.ChainID == 0 {
		allErrors = append(allErrors, field.Required(path.Child("chainId"), "chain id is required"))
	}
	if dc.VerifyingContract == "" {
		allErrors = append(allErrors, field.Required(path.Child("verifyingContract"), "verifying contract is required"))
	} else if !common.IsHexAddress(dc.VerifyingContract) {
		allErrors = append(allErrors, field.Invalid(path.Child("verifyingContract"), dc.VerifyingContract, "must be a 20-byte hex address"))
	}
	return allErrors
}

// Validate validates the domain configuration
func (dc *DomainConfig) Validate() error {
	if errs := dc.validate(field.NewPath("domain")); len(errs) > 0 {
		return errs.ToAggregate()
	}
	return nil
}

// ToDomain builds the immutable signing domain.
func (dc *DomainConfig) ToDomain() (*eip712.Domain, error) {
	if err := dc.Validate(); err != nil {
		return nil, err
	}
	return eip712.NewDomainFromHex(dc.Name, dc.Version, dc.ChainID.BigInt(), dc.VerifyingContract)
}

// LedgerConfig selects where issued claims are recorded.
type LedgerConfig struct {
	Type          LedgerType `json:"type" yaml:"type"`
	Path          string     `json:"path" yaml:"path"`
	RedisAddress  string     `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword string     `json:"-" yaml:"-"`
	RedisDB       int        `json:"redisDb" yaml:"redisDb"`
	KeyPrefix     string     `json:"keyPrefix" yaml:"keyPrefix"`
}

func (lc *LedgerConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	switch lc.Type {
	case "", LedgerType_None, LedgerType_Memory:
	case LedgerType_Badger:
		if lc.Path == "" {
			allErrors = append(allErrors, field.Required(path.Child("path"), "path is required for the badger ledger"))
		}
	case LedgerType_Redis:
		if lc.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "address is required for the redis ledger"))
		}
		if lc.RedisDB < 0 || lc.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDb"), lc.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), lc.Type,
			[]string{string(LedgerType_None), string(LedgerType_Memory), string(LedgerType_Badger), string(LedgerType_Redis)}))
	}
	return allErrors
}

// SignerConfig is the complete configuration for the claim signer.
type SignerConfig struct {
	Domain DomainConfig `json:"domain" yaml:"domain"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger"`

	// PrivateKey is never serialized.
	PrivateKey string `json:"-" yaml:"-"`

	Debug bool `json:"debug" yaml:"debug"`
}

// Validate validates the signer configuration. The private key is only checked for
// format here; the signer validates the scalar itself.
func (c *SignerConfig) Validate() error {
	allErrors := c.Domain.validate(field.NewPath("domain"))
	allErrors = append(allErrors, c.Ledger.validate(field.NewPath("ledger"))...)

	if c.PrivateKey == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("privateKey"), "private key is required"))
	} else {
		key := strings.TrimPrefix(c.PrivateKey, "0x")
		if len(key) != 64 {
			// never echo the key value back
			allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>",
				fmt.Sprintf("must be 32 bytes (64 hex chars), got %d chars", len(key))))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
