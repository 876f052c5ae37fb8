package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "claim-signer",
		Usage: "Compute and sign EIP-712 claimToken digests",
		Description: `Produces the signatures a claim contract verifies with ecrecover.

The signing domain is (name, version, chainId, verifyingContract). Results print the
uuid, amount, userAddress, deadline, v, r and s the claimant submits on chain.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvDebug},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.StringFlag{
				Name:    "domain-name",
				Usage:   "EIP-712 domain name",
				Value:   config.DefaultDomainName,
				EnvVars: []string{config.EnvDomainName},
			},
			&cli.StringFlag{
				Name:    "domain-version",
				Usage:   "EIP-712 domain version",
				Value:   config.DefaultDomainVersion,
				EnvVars: []string{config.EnvDomainVersion},
			},
			&cli.Uint64Flag{
				Name:    "chain-id",
				Usage:   fmt.Sprintf("Chain ID of the verifying contract, e.g. %s", config.GetSupportedChainIDsString()),
				EnvVars: []string{config.EnvChainID},
			},
			&cli.StringFlag{
				Name:    "verifying-contract",
				Usage:   "Address of the claim contract",
				EnvVars: []string{config.EnvVerifyingContract},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "domain-separator",
				Usage:  "Print the domain separator for the configured domain",
				Action: domainSeparatorCommand,
			},
			{
				Name:   "digest",
				Usage:  "Compute the claimToken digest without signing",
				Flags:  claimFlags(true),
				Action: digestCommand,
			},
			{
				Name:   "sign",
				Usage:  "Compute and sign a claimToken digest",
				Flags:  append(append(claimFlags(false), privateKeyFlag()), ledgerFlags()...),
				Action: signCommand,
			},
			{
				Name:  "sign-typed",
				Usage: "Sign a flat typed-data message described by a YAML file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the typed-data YAML file",
						Required: true,
					},
					privateKeyFlag(),
				},
				Action: signTypedCommand,
			},
			{
				Name:  "recover",
				Usage: "Recover the signer address of a digest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "digest",
						Usage:    "32-byte digest (0x hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "65-byte r || s || v signature (0x hex), v as 0/1 or 27/28",
						Required: true,
					},
				},
				Action: recoverCommand,
			},
			{
				Name:   "list-claims",
				Usage:  "List claims recorded in a ledger",
				Flags:  ledgerFlags(),
				Action: listClaimsCommand,
			},
		},
	}
}

// claimFlags are the claimToken message fields. uuid is optional when signing, in
// which case a random one is generated.
func claimFlags(requireUUID bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "uuid",
			Usage:    "Claim id (decimal or 0x hex)",
			Required: requireUUID,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "Token amount in base units (decimal or 0x hex)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "user-address",
			Usage:    "Address allowed to claim",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "nonce",
			Usage: "Claimant nonce (decimal or 0x hex)",
			Value: "0",
		},
		&cli.StringFlag{
			Name:     "deadline",
			Usage:    "Unix timestamp after which the claim is rejected",
			Required: true,
		},
	}
}

func privateKeyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "private-key",
		Usage:    "secp256k1 private key (0x hex)",
		EnvVars:  []string{config.EnvPrivateKey},
		Required: true,
	}
}

func ledgerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ledger",
			Usage:   "Where to record issued claims: none, memory, badger or redis",
			Value:   string(config.LedgerType_None),
			EnvVars: []string{config.EnvLedger},
		},
		&cli.StringFlag{
			Name:    "ledger-path",
			Usage:   "Data directory for the badger ledger",
			EnvVars: []string{config.EnvLedgerPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis address (host:port) for the redis ledger",
			EnvVars: []string{config.EnvRedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvRedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number (0-15)",
			EnvVars: []string{config.EnvRedisDB},
		},
		&cli.StringFlag{
			Name:    "ledger-key-prefix",
			Usage:   "Key prefix for the redis ledger",
			EnvVars: []string{config.EnvLedgerKeyPrefix},
		},
	}
}
