package models

import (
	"time"
)

// Post is an image post. UserID is nullable: legacy posts created before
// accounts existed carry no author.
type Post struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  *uint   `gorm:"index" json:"user_id"`
	User    *User   `gorm:"foreignKey:UserID" json:"-"`
	Caption string  `gorm:"size:500;not null" json:"caption"`
	Images  []PostImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked/Saved indicate the requesting viewer's state (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	Saved     bool      `gorm:"->" json:"saved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostImage is one ordered image attachment of a post. SortOrder starts at 0
// and follows submission order.
type PostImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    uint   `gorm:"not null;index" json:"post_id"`
	ImageURL  string `gorm:"not null" json:"image_url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}
