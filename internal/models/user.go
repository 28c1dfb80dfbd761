package models

import "time"

// User is a chat registered via /start. Rows are append-only: they are
// never mutated or deleted.
type User struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"`
	ChatID    int64 `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
