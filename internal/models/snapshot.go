package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoreSnapshot is one durable store slice, overwritten as a whole on every save.
type StoreSnapshot struct {
	Key       string         `gorm:"primaryKey;size:100" json:"key"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (StoreSnapshot) TableName() string {
	return "store_snapshots"
}
