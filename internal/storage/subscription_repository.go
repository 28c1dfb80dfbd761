package storage

import (
	"gorm.io/gorm"

	"tg-keyword-alert/internal/models"
)

// SubscriptionRepository handles database operations for Subscription.
// Deactivation is the only mutation: rows are kept forever and status
// moves Active to Inactive exactly once.
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// MigrateTable ensures the Subscription table exists
func (r *SubscriptionRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Subscription{})
}

// Create inserts a new subscription row.
func (r *SubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// ListActive returns the user's active subscriptions ordered by id.
func (r *SubscriptionRepository) ListActive(userID uint) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	result := r.db.
		Where("user_id = ? AND status = ?", userID, models.StatusActive).
		Order("id").
		Find(&subs)
	if result.Error != nil {
		return nil, result.Error
	}
	return subs, nil
}

// ListAllActive returns every active subscription across all users,
// ordered by id. Used by the channel monitor.
func (r *SubscriptionRepository) ListAllActive() ([]*models.Subscription, error) {
	var subs []*models.Subscription
	result := r.db.
		Where("status = ?", models.StatusActive).
		Order("id").
		Find(&subs)
	if result.Error != nil {
		return nil, result.Error
	}
	return subs, nil
}

// ExistsActive reports whether the user already has an identical active
// subscription tuple.
func (r *SubscriptionRepository) ExistsActive(userID uint, pattern, channelName, channelChatID string) (bool, error) {
	var count int64
	result := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND pattern = ? AND channel_name = ? AND channel_chat_id = ? AND status = ?",
			userID, pattern, channelName, channelChatID, models.StatusActive).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// DeactivateByPattern flips matching active rows to Inactive and returns
// how many were affected. Empty channelName and channelChatID filter
// nothing: the pattern is deactivated across all channels.
func (r *SubscriptionRepository) DeactivateByPattern(userID uint, pattern, channelName, channelChatID string) (int64, error) {
	query := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND pattern = ? AND status = ?", userID, pattern, models.StatusActive)
	if channelName != "" {
		query = query.Where("channel_name = ?", channelName)
	}
	if channelChatID != "" {
		query = query.Where("channel_chat_id = ?", channelChatID)
	}

	result := query.Update("status", models.StatusInactive)
	return result.RowsAffected, result.Error
}

// DeactivateByIDs flips the given rows to Inactive, provided they belong
// to the user and are still active, and returns how many were affected.
func (r *SubscriptionRepository) DeactivateByIDs(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Subscription{}).
		Where("id IN ? AND user_id = ? AND status = ?", ids, userID, models.StatusActive).
		Update("status", models.StatusInactive)
	return result.RowsAffected, result.Error
}

// DeactivateAll flips every active row of the user to Inactive and
// returns how many were affected.
func (r *SubscriptionRepository) DeactivateAll(userID uint) (int64, error) {
	result := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.StatusActive).
		Update("status", models.StatusInactive)
	return result.RowsAffected, result.Error
}
