package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/eigenx-claim-signer/pkg/config"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence/badger"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence/memory"
	"github.com/Layr-Labs/eigenx-claim-signer/pkg/persistence/redis"
)

func parseLedgerConfig(c *cli.Context) config.LedgerConfig {
	return config.LedgerConfig{
		Type:          config.LedgerType(c.String("ledger")),
		Path:          c.String("ledger-path"),
		RedisAddress:  c.String("redis-address"),
		RedisPassword: c.String("redis-password"),
		RedisDB:       c.Int("redis-db"),
		KeyPrefix:     c.String("ledger-key-prefix"),
	}
}

// newLedger opens the configured claim ledger. It returns nil for LedgerType_None.
func newLedger(cfg *config.LedgerConfig, l *zap.Logger) (persistence.IClaimLedger, error) {
	switch cfg.Type {
	case "", config.LedgerType_None:
		return nil, nil
	case config.LedgerType_Memory:
		return memory.NewMemoryLedger(l), nil
	case config.LedgerType_Badger:
		return badger.NewBadgerLedger(cfg.Path, l)
	case config.LedgerType_Redis:
		return redis.NewRedisLedger(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		}, l)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", cfg.Type)
	}
}
