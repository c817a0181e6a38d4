package repository

import (
	"errors"
	"fmt"

	"emojiart-be/internal/config"
	"emojiart-be/internal/repository/contract"
	"emojiart-be/internal/repository/implementation"
	"emojiart-be/internal/repository/memory"
	"emojiart-be/pkg/database"

	"github.com/redis/go-redis/v9"
)

const (
	DriverMemory   = "memory"
	DriverSqlite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// NewSnapshotRepository picks the backing store named by cfg.Driver. The
// returned close func releases whatever connection the driver opened; the
// redis client is owned by the caller.
func NewSnapshotRepository(cfg config.StoreConfig, rdb *redis.Client) (contract.SnapshotRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case DriverMemory:
		return memory.NewSnapshotRepository(), noop, nil

	case DriverSqlite:
		db, err := database.OpenSQLite(cfg.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := implementation.NewSqliteSnapshotRepository(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil

	case DriverRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("redis store: REDIS_URL is not configured")
		}
		return implementation.NewRedisSnapshotRepository(rdb, cfg.KeyPrefix), noop, nil

	case DriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Connection, false)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres store: %w", err)
		}
		return implementation.NewSnapshotRepository(db), func() error { return database.CloseGormDB(db) }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
