package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/claim"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/config"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/eip712"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/logger"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/signer"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/util"
)

func newCommandLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

func parseDomainConfig(c *cli.Context) *config.DomainConfig {
	return &config.DomainConfig{
		Name:              c.String("domain-name"),
		Version:           c.String("domain-version"),
		ChainID:           config.ChainId(c.Uint64("chain-id")),
		VerifyingContract: c.String("verifying-contract"),
	}
}

func loadDomain(c *cli.Context) (*eip712.Domain, error) {
	domainConfig := parseDomainConfig(c)
	if err := domainConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return domainConfig.ToDomain()
}

// parseClaimRequest reads the claim flags. A missing uuid is generated.
func parseClaimRequest(c *cli.Context, l *zap.Logger) (*claim.ClaimTokenRequest, error) {
	req := &claim.ClaimTokenRequest{}

	if c.String("uuid") == "" {
		req.UUID = claim.NewClaimID()
		l.Sugar().Infow("Generated claim uuid", "uuid", req.UUID.String())
	} else {
		uuid, err := util.ParseBigInt(c.String("uuid"))
		if err != nil {
			return nil, fmt.Errorf("invalid uuid: %w", err)
		}
		req.UUID = uuid
	}

	var err error
	if req.Amount, err = util.ParseBigInt(c.String("amount")); err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if req.Nonce, err = util.ParseBigInt(c.String("nonce")); err != nil {
		return nil, fmt.Errorf("invalid nonce: %w", err)
	}
	if req.Deadline, err = util.ParseBigInt(c.String("deadline")); err != nil {
		return nil, fmt.Errorf("invalid deadline: %w", err)
	}

	userAddress := c.String("user-address")
	if !common.IsHexAddress(userAddress) {
		return nil, fmt.Errorf("invalid user address: %s", userAddress)
	}
	req.UserAddress = common.HexToAddress(userAddress)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func domainSeparatorCommand(c *cli.Context) error {
	domain, err := loadDomain(c)
	if err != nil {
		return err
	}

	separator, err := domain.Separator()
	if err != nil {
		return fmt.Errorf("failed to build domain separator: %w", err)
	}

	return printOutput(c, map[string]string{"domainSeparator": separator.Hex()}, separator.Hex())
}

func digestCommand(c *cli.Context) error {
	l, err := newCommandLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	domain, err := loadDomain(c)
	if err != nil {
		return err
	}

	req, err := parseClaimRequest(c, l)
	if err != nil {
		return err
	}

	issuer, err := claim.NewIssuer(domain, nil, l)
	if err != nil {
		return err
	}

	digest, err := issuer.Digest(req)
	if err != nil {
		return fmt.Errorf("failed to compute digest: %w", err)
	}

	return printOutput(c, map[string]string{"digest": digest.Hex()}, digest.Hex())
}

func signCommand(c *cli.Context) error {
	l, err := newCommandLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	signerConfig := &config.SignerConfig{
		Domain:     *parseDomainConfig(c),
		Ledger:     parseLedgerConfig(c),
		PrivateKey: c.String("private-key"),
		Debug:      c.Bool("debug"),
	}
	if err := signerConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	domain, err := signerConfig.Domain.ToDomain()
	if err != nil {
		return err
	}

	req, err := parseClaimRequest(c, l)
	if err != nil {
		return err
	}

	key, err := util.DecodePrivateKeyHex(signerConfig.PrivateKey)
	if err != nil {
		return err
	}
	defer clear(key)

	ledger, err := newLedger(&signerConfig.Ledger, l)
	if err != nil {
		return fmt.Errorf("failed to open claim ledger: %w", err)
	}
	if ledger != nil {
		defer func() { _ = ledger.Close() }()
	}

	issuer, err := claim.NewIssuer(domain, ledger, l)
	if err != nil {
		return err
	}

	result, err := issuer.Issue(req, key)
	if err != nil {
		return fmt.Errorf("failed to issue claim: %w", err)
	}

	return printOutput(c, result,
		result.UUID,
		result.Amount,
		result.UserAddress,
		result.Deadline,
		fmt.Sprintf("%d", result.V),
		result.R,
		result.S,
	)
}

type typedSignatureOutput struct {
	DomainSeparator string `json:"domainSeparator"`
	StructHash      string `json:"structHash"`
	Digest          string `json:"digest"`
	Signer          string `json:"signer"`
	V               uint8  `json:"v"`
	R               string `json:"r"`
	S               string `json:"s"`
	Signature       string `json:"signature"`
}

func signTypedCommand(c *cli.Context) error {
	l, err := newCommandLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	td, err := config.LoadTypedDataFile(c.String("file"))
	if err != nil {
		return err
	}

	domain, err := td.ToDomain()
	if err != nil {
		return err
	}
	message, err := td.ToStruct()
	if err != nil {
		return err
	}

	key, err := util.DecodePrivateKeyHex(c.String("private-key"))
	if err != nil {
		return err
	}
	defer clear(key)

	signed, err := signer.BuildAndSign(domain, message, key)
	if err != nil {
		return fmt.Errorf("failed to sign typed data: %w", err)
	}

	address, err := signer.RecoverAddress(signed.Digest.Bytes(), signed.Signature)
	if err != nil {
		return err
	}

	l.Sugar().Debugw("Signed typed data",
		"primaryType", td.PrimaryType,
		"typeSignature", message.TypeSignature().String(),
		"signer", address.Hex(),
	)

	out := &typedSignatureOutput{
		DomainSeparator: signed.DomainSeparator.Hex(),
		StructHash:      signed.StructHash.Hex(),
		Digest:          signed.Digest.Hex(),
		Signer:          address.Hex(),
		V:               signed.Signature.LegacyV(),
		R:               signed.Signature.RHex(),
		S:               signed.Signature.SHex(),
		Signature:       signed.Signature.Hex(),
	}
	return printOutput(c, out, out.Digest, out.Signature)
}

func recoverCommand(c *cli.Context) error {
	digest, err := hexutil.Decode(c.String("digest"))
	if err != nil {
		return fmt.Errorf("invalid digest: %w", err)
	}

	sig, err := signer.SignatureFromHex(c.String("signature"))
	if err != nil {
		return err
	}

	address, err := signer.RecoverAddress(digest, sig)
	if err != nil {
		return err
	}

	return printOutput(c, map[string]string{"address": address.Hex()}, address.Hex())
}

func listClaimsCommand(c *cli.Context) error {
	l, err := newCommandLogger(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	ledgerConfig := parseLedgerConfig(c)
	ledger, err := newLedger(&ledgerConfig, l)
	if err != nil {
		return fmt.Errorf("failed to open claim ledger: %w", err)
	}
	if ledger == nil {
		return fmt.Errorf("--ledger is required")
	}
	defer func() { _ = ledger.Close() }()

	records, err := ledger.ListClaims()
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("%s %s %s", r.Key(), r.Amount, r.Digest))
	}
	return printOutput(c, records, lines...)
}

// printOutput writes v as indented JSON with --json, otherwise one line per entry.
func printOutput(c *cli.Context, v interface{}, lines ...string) error {
	w := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
