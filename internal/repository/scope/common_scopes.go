package scope

import "gorm.io/gorm"

func ByKey(key string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("key = ?", key)
	}
}
