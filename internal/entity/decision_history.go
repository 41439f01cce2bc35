package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// DecisionHistory is a persisted decision record, kept so regime transitions
// can be inspected after the cache entry has been overwritten.
type DecisionHistory struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Regime           string         `gorm:"not null" json:"regime"`
	Source           string         `gorm:"not null" json:"source"`
	WhatChanged      pq.StringArray `gorm:"type:text[]" json:"what_changed"`
	Winners          pq.StringArray `gorm:"type:text[]" json:"winners"`
	Losers           pq.StringArray `gorm:"type:text[]" json:"losers"`
	Signals          pq.StringArray `gorm:"type:text[]" json:"signals"`
	Payload          datatypes.JSON `json:"payload"`
	HeadlineCount    int            `json:"headline_count"`
	SnapshotComplete bool           `json:"snapshot_complete"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the DecisionHistory model.
func (DecisionHistory) TableName() string {
	return "decision_histories"
}
