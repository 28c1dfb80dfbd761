package storage

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tg-keyword-alert/internal/models"
)

// StateRepository handles the key/value state table consumed by the
// channel monitor for progress markers.
type StateRepository struct {
	db *gorm.DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// MigrateTable ensures the state table exists
func (r *StateRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.StateEntry{})
}

// Get returns the value stored for key, or def when absent.
func (r *StateRepository) Get(key, def string) (string, error) {
	var entry models.StateEntry
	result := r.db.Where("key = ?", key).First(&entry)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return def, nil
		}
		return def, result.Error
	}
	return entry.Value, nil
}

// Set stores value under key, inserting or updating as needed.
func (r *StateRepository) Set(key, value string) error {
	entry := models.StateEntry{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}
