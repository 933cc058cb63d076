package server

import (
	"mime/multipart"

	"pictora/internal/middleware"
	"pictora/internal/models"
	"pictora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /getPosts. The optional search query filters by
// caption or author; an optional bearer token adds viewer like/save state.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.GetFeed(c.UserContext(), c.Query("search"), viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Posts retrieved successfully", fiber.Map{
		"posts": posts,
	})
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), postID, viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Post retrieved successfully", fiber.Map{
		"post": post,
	})
}

// CreatePost handles POST /createPost. Expects a multipart form with a
// caption field and 1-5 files under the images field. A valid bearer token
// sets the author; without one the post is anonymous.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Expected multipart form data"))
	}

	files := form.File["images"]
	if len(files) == 0 {
		// single-image clients send the file under "image"
		files = form.File["image"]
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return models.RespondWithError(c, models.NewValidationError("Unable to read uploaded file"))
		}
		opened = append(opened, src)
		uploads = append(uploads, service.ImageUpload{
			FileName: fh.Filename,
			Reader:   src,
			Size:     fh.Size,
		})
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		Caption: c.FormValue("caption"),
		Images:  uploads,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "Post created",
		"post_id", post.ID, "images", len(post.Images))

	return respond(c, fiber.StatusCreated, "Post created successfully", fiber.Map{
		"post": post,
	})
}

// DeletePost handles DELETE /posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// ToggleLike handles POST /posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	result, err := s.interactionService.ToggleLike(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	message := "Post unliked"
	if result.Active {
		message = "Post liked"
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{
		"liked":      result.Active,
		"like_count": result.Count,
	})
}

// ToggleSave handles POST /posts/:id/save
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	result, err := s.interactionService.ToggleSave(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	message := "Post removed from saved"
	if result.Active {
		message = "Post saved"
	}
	return respond(c, fiber.StatusOK, message, fiber.Map{
		"saved": result.Active,
	})
}

// GetSavedPosts handles GET /users/:id/saved. Bookmarks are private, so the
// list is only available to its owner.
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id", "user ID")
	if err != nil {
		return nil
	}
	if userID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("You can only view your own saved posts"))
	}

	posts, err := s.postService.ListSaved(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return respond(c, fiber.StatusOK, "Saved posts retrieved successfully", fiber.Map{
		"posts": posts,
	})
}
