package models

import (
	"time"
	"unicode"
	"unicode/utf8"
)

// EnrichedPost is the denormalized post view returned by the feed endpoints.
// Description/Timestamp/Image duplicate Caption/CreatedAt/Images[0] for
// single-image clients that predate multi-image posts.
type EnrichedPost struct {
	ID           uint          `json:"id"`
	UserID       *uint         `json:"user_id"`
	Caption      string        `json:"caption"`
	Description  string        `json:"description"`
	CreatedAt    time.Time     `json:"created_at"`
	Timestamp    time.Time     `json:"timestamp"`
	Author       string        `json:"author"`
	Username     string        `json:"username"`
	Avatar       string        `json:"avatar"`
	Image        *string       `json:"image"`
	Images       []string      `json:"images"`
	Likes        int           `json:"likes"`
	CommentCount int           `json:"comment_count"`
	Comments     []CommentView `json:"comments"`
	IsLiked      bool          `json:"is_liked"`
	IsSaved      bool          `json:"is_saved"`
}

// AvatarGlyph derives the single-character avatar for a display name:
// the first rune uppercased, or "U" when the name is empty.
func AvatarGlyph(name string) string {
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
