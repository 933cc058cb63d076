package models

import (
	"time"
)

// Comment is an append-only comment on a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Text      string    `gorm:"column:comment_text;size:500;not null" json:"comment_text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is the comment representation returned to clients, with the
// author resolved to display fields.
type CommentView struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"comment_text"`
	Author    string    `json:"author"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
