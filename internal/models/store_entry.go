package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoreEntry is a single keyed JSON document in the local store.
type StoreEntry struct {
	Key       string         `gorm:"primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `gorm:"type:json" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName overrides the default table name.
func (StoreEntry) TableName() string {
	return "store_entries"
}
