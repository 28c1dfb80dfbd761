package models

// StateEntry is a key/value row used by collaborators such as the
// channel monitor to persist progress markers. The command core only
// ensures the table exists.
type StateEntry struct {
	Key   string `gorm:"primaryKey;size:191"`
	Value string `gorm:"type:text"`
}
