package server

import (
	"errors"

	"pictora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) so Fiber's
// ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param, label string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user ID placed in locals by
// AuthRequired. Handlers behind AuthRequired may rely on it being set.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// respond writes the standard success envelope with the payload fields merged
// alongside success and message.
func respond(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
