package implementation

import (
	"context"
	"errors"
	"fmt"

	"emojiart-be/internal/entity"
	"emojiart-be/internal/model"
	"emojiart-be/internal/repository/contract"
	"emojiart-be/internal/repository/scope"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepositoryImpl stores snapshots in the postgres "snapshots" table.
type SnapshotRepositoryImpl struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &SnapshotRepositoryImpl{
		db: db,
	}
}

func (r *SnapshotRepositoryImpl) Write(ctx context.Context, key string, data []byte) error {
	m := model.Snapshot{
		Key:  key,
		Data: datatypes.JSON(data),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return nil
}

func (r *SnapshotRepositoryImpl) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var m model.Snapshot
	if err := r.db.WithContext(ctx).Scopes(scope.ByKey(key)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %s: %w", entity.ErrPersistenceFailure, key, err)
	}
	return []byte(m.Data), true, nil
}
