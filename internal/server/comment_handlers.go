package server

import (
	"pictora/internal/models"
	"pictora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /posts/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, toCommentView(comment))
	}

	return respond(c, fiber.StatusOK, "Comments retrieved successfully", fiber.Map{
		"comments": views,
	})
}

// AddComment handles POST /posts/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   body.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusCreated, "Comment added successfully", fiber.Map{
		"comment": toCommentView(comment),
	})
}

// DeleteComment handles DELETE /comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Comment deleted successfully", nil)
}

func toCommentView(c *models.Comment) models.CommentView {
	view := models.CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		view.Author = c.User.FullName
		view.Username = c.User.Username
	}
	return view
}
