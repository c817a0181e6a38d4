package model

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot is one stored blob. The json column keeps the text exactly as
// written.
type Snapshot struct {
	Key       string         `gorm:"type:varchar(255);primaryKey"`
	Data      datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
