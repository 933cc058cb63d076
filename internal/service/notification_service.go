package service

import (
	"context"

	"pictora/internal/models"
	"pictora/internal/repository"
)

const notificationPageSize = 50

// NotificationService reads and acknowledges a user's notifications.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NotificationPage is the inbox view: most recent notifications plus the
// unread total across the whole inbox.
type NotificationPage struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns the user's 50 most recent notifications, newest first, with
// the unread count.
func (s *NotificationService) List(ctx context.Context, userID uint) (*NotificationPage, error) {
	notifications, err := s.notifRepo.ListByUser(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkAllRead marks every unread notification read and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}
