package server

import (
	"pictora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /notifications/:userId. The path parameter is
// kept for client compatibility but must match the authenticated user.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId", "user ID")
	if err != nil {
		return nil
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("You can only view your own notifications"))
	}

	page, err := s.notificationService.List(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Notifications retrieved successfully", fiber.Map{
		"notifications": page.Notifications,
		"unread_count":  page.UnreadCount,
	})
}

// MarkNotificationsRead handles PUT /notifications/:userId/read-all
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId", "user ID")
	if err != nil {
		return nil
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("You can only update your own notifications"))
	}

	updated, err := s.notificationService.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Notifications marked as read", fiber.Map{
		"updated": updated,
	})
}
