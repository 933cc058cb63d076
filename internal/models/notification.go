package models

import (
	"time"
)

// Notification kinds.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

// Notification is an append-only fan-out event targeted at a recipient.
// Immutable once created except for the IsRead flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ActorID   *uint     `gorm:"index" json:"actor_id,omitempty"`
	PostID    *uint     `gorm:"index" json:"post_id,omitempty"`
	Kind      string    `gorm:"column:type;size:16;not null" json:"type"`
	Message   string    `gorm:"size:255;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
