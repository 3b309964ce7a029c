package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is a row of the key-value table used by the Postgres store.
type KVEntry struct {
	Key       string         `gorm:"size:255;primary_key"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
