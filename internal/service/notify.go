// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"fmt"

	"pictora/internal/models"
)

const commentPreviewRunes = 30

// actorName returns the display name used in notification messages.
func actorName(u *models.User) string {
	if u == nil {
		return "Someone"
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Someone"
}

// commentPreview truncates a comment to 30 characters for the notification
// message, appending an ellipsis when shortened.
func commentPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= commentPreviewRunes {
		return text
	}
	return string(runes[:commentPreviewRunes]) + "..."
}

func likeMessage(actor *models.User) string {
	return fmt.Sprintf("%s liked your post", actorName(actor))
}

func commentMessage(actor *models.User, text string) string {
	return fmt.Sprintf("%s commented: \"%s\"", actorName(actor), commentPreview(text))
}

func followMessage(actor *models.User) string {
	return fmt.Sprintf("%s started following you", actorName(actor))
}
