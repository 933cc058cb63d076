package server

import (
	"pictora/internal/models"
	"pictora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /users/:id. An optional bearer token resolves the
// viewer's follow state.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetProfile(c.UserContext(), userID, viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "User retrieved successfully", fiber.Map{
		"user": profile,
	})
}

// UpdateProfile handles PUT /users/:id. Users can only update themselves.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("You can only update your own profile"))
	}

	var body struct {
		FullName *string `json:"fullName"`
		Bio      *string `json:"bio"`
		Website  *string `json:"website"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if body.FullName == nil && body.Bio == nil && body.Website == nil {
		return models.RespondWithError(c, models.NewValidationError("No fields to update"))
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   userID,
		FullName: body.FullName,
		Bio:      body.Bio,
		Website:  body.Website,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"user": profile,
	})
}

// ToggleFollow handles POST /users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}

	result, err := s.followService.ToggleFollow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	message := "User unfollowed"
	if result.Active {
		message = "User followed"
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{
		"following":      result.Active,
		"follower_count": result.Count,
	})
}

// GetFollowers handles GET /users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}

	followers, err := s.followService.Followers(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Followers retrieved successfully", fiber.Map{
		"users": followers,
	})
}

// GetFollowing handles GET /users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}

	following, err := s.followService.Following(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Following retrieved successfully", fiber.Map{
		"users": following,
	})
}
