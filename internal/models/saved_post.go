package models

import (
	"time"
)

// SavedPost is a user's bookmark on a post. Unlike likes, saving never
// notifies the post owner. Unique on (PostID, UserID).
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_saved_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
