package models

import "time"

// Subscription status values. Inactive is a permanent soft-delete; no
// code path ever flips a row back to Active.
const (
	StatusActive   = 0
	StatusInactive = 1
)

// Subscription stores one compiled keyword pattern scoped to a channel.
// ChannelName and ChannelChatID are alternate identifiers for the same
// target: at most one is non-empty.
type Subscription struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UserID        uint   `gorm:"index;not null"`
	Pattern       string `gorm:"type:text;not null"`
	ChannelName   string `gorm:"default:''"`
	ChannelChatID string `gorm:"default:''"`
	Status        int    `gorm:"index;default:0"`
	CreatedAt     time.Time
}

// IsActive reports whether the subscription has not been deactivated.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// ChannelLabel returns the human-facing identifier of the target channel.
func (s *Subscription) ChannelLabel() string {
	if s.ChannelName != "" {
		return s.ChannelName
	}
	return s.ChannelChatID
}
