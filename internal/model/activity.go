package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionUpdatedStatus Action = "updated_status"
)

// ActivityLog is an append-only record of one admin mutation.
// PublishedAt is only ever set by the outbox relay.
type ActivityLog struct {
	ID          string            `gorm:"primaryKey;size:36;not null" json:"id"`
	AdminID     string            `gorm:"size:36;index;not null" json:"admin_id"`
	Admin       *Profile          `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Action      Action            `gorm:"size:32;not null" json:"action"`
	TargetTable string            `gorm:"size:64;index;not null" json:"target_table"`
	TargetID    string            `gorm:"size:36;not null" json:"target_id"`
	Details     datatypes.JSONMap `json:"details"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	PublishedAt *time.Time        `gorm:"index" json:"-"`
}

func (ActivityLog) TableName() string { return TableActivityLogs }

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
