package implementation

import (
	"context"
	"errors"
	"fmt"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotRepositoryImpl stores each snapshot as a plain string value
// under prefix+key, without expiry.
type RedisSnapshotRepositoryImpl struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSnapshotRepository(rdb *redis.Client, prefix string) contract.SnapshotRepository {
	return &RedisSnapshotRepositoryImpl{
		rdb:    rdb,
		prefix: prefix,
	}
}

func (r *RedisSnapshotRepositoryImpl) Write(ctx context.Context, key string, data []byte) error {
	if err := r.rdb.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: write %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return nil
}

func (r *RedisSnapshotRepositoryImpl) Read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return data, true, nil
}
