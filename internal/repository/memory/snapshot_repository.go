package memory

import (
	"context"

	"emojiart-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type SnapshotRepository struct {
	cache *cache.Cache
}

// NewSnapshotRepository keeps snapshots for the life of the process.
func NewSnapshotRepository() contract.SnapshotRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SnapshotRepository{
		cache: c,
	}
}

func (r *SnapshotRepository) Write(ctx context.Context, key string, data []byte) error {
	r.cache.Set(key, append([]byte(nil), data...), cache.NoExpiration)
	return nil
}

func (r *SnapshotRepository) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if x, found := r.cache.Get(key); found {
		return append([]byte(nil), x.([]byte)...), true, nil
	}
	return nil, false, nil
}
