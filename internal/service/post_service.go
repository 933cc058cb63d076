package service

import (
	"context"
	"io"
	"strings"

	"pictora/internal/cache"
	"pictora/internal/middleware"
	"pictora/internal/models"
	"pictora/internal/repository"
	"pictora/internal/storage"
)

const (
	maxCaptionLen       = 500
	maxImagesPerPost    = 5
	feedPreviewComments = 3
)

// PostService handles post creation, the enriched feed, and deletion.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	store       storage.ImageStore
}

// ImageUpload is one image file submitted with a new post.
type ImageUpload struct {
	FileName string
	Reader   io.Reader
	Size     int64
}

// CreatePostInput carries a new post submission. UserID 0 means the caller
// is anonymous and the post is created without an author.
type CreatePostInput struct {
	UserID  uint
	Caption string
	Images  []ImageUpload
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	store storage.ImageStore,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		store:       store,
	}
}

// CreatePost uploads the images to object storage, then persists the post
// with its image rows.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.EnrichedPost, error) {
	caption := strings.TrimSpace(in.Caption)
	if caption == "" {
		return nil, models.NewValidationError("Caption is required")
	}
	if len([]rune(caption)) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 500 characters)")
	}
	if len(in.Images) == 0 {
		return nil, models.NewValidationError("At least one image is required")
	}
	if len(in.Images) > maxImagesPerPost {
		return nil, models.NewValidationError("A post can have at most 5 images")
	}

	images := make([]models.PostImage, 0, len(in.Images))
	for i, img := range in.Images {
		url, err := s.store.Upload(ctx, img.FileName, img.Reader, img.Size)
		if err != nil {
			s.discardUploads(ctx, images)
			return nil, models.NewUploadError(err)
		}
		images = append(images, models.PostImage{ImageURL: url, SortOrder: i})
	}

	var author *uint
	if in.UserID != 0 {
		author = &in.UserID
	}

	post := &models.Post{
		UserID:  author,
		Caption: caption,
		Images:  images,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardUploads(ctx, images)
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return s.GetPost(ctx, post.ID, in.UserID)
}

// discardUploads removes objects whose post row never materialized. Failures
// are logged and otherwise ignored.
func (s *PostService) discardUploads(ctx context.Context, images []models.PostImage) {
	for _, img := range images {
		if err := s.store.Delete(ctx, img.ImageURL); err != nil {
			middleware.Logger.WarnContext(ctx, "Failed to remove orphaned upload",
				"url", img.ImageURL, "error", err)
		}
	}
}

// GetFeed returns all posts enriched with author, counts, the viewer's
// like/save state, and the latest comments. search filters by caption or
// author name; viewerID 0 means anonymous.
func (s *PostService) GetFeed(ctx context.Context, search string, viewerID uint) ([]*models.EnrichedPost, error) {
	search = strings.TrimSpace(search)

	// Only the anonymous unfiltered feed is cached; anything viewer-specific
	// must hit the database.
	if viewerID == 0 && search == "" {
		var feed []*models.EnrichedPost
		err := cache.Aside(ctx, cache.FeedKey, &feed, cache.FeedTTL, func() error {
			fetched, err := s.assembleFeed(ctx, "", 0)
			if err != nil {
				return err
			}
			feed = fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return feed, nil
	}

	return s.assembleFeed(ctx, search, viewerID)
}

func (s *PostService) assembleFeed(ctx context.Context, search string, viewerID uint) ([]*models.EnrichedPost, error) {
	posts, err := s.postRepo.List(ctx, search, viewerID)
	if err != nil {
		return nil, err
	}

	feed := make([]*models.EnrichedPost, 0, len(posts))
	for _, post := range posts {
		enriched, err := s.enrich(ctx, post)
		if err != nil {
			return nil, err
		}
		feed = append(feed, enriched)
	}
	return feed, nil
}

// GetPost returns one enriched post.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.EnrichedPost, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, post)
}

// ListSaved returns the viewer's bookmarked posts, newest bookmark first.
func (s *PostService) ListSaved(ctx context.Context, userID uint) ([]*models.EnrichedPost, error) {
	posts, err := s.postRepo.ListSavedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := make([]*models.EnrichedPost, 0, len(posts))
	for _, post := range posts {
		enriched, err := s.enrich(ctx, post)
		if err != nil {
			return nil, err
		}
		enriched.IsSaved = true
		feed = append(feed, enriched)
	}
	return feed, nil
}

// DeletePost removes a post and everything hanging off it. Owners delete
// their own posts; admins delete any post, including ownerless ones.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}

	if post.UserID == nil || *post.UserID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.IsAdmin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (s *PostService) enrich(ctx context.Context, post *models.Post) (*models.EnrichedPost, error) {
	enriched := &models.EnrichedPost{
		ID:           post.ID,
		UserID:       post.UserID,
		Caption:      post.Caption,
		Description:  post.Caption,
		CreatedAt:    post.CreatedAt,
		Timestamp:    post.CreatedAt,
		Author:       "User",
		Username:     "user",
		Avatar:       models.AvatarGlyph(""),
		Likes:        post.LikesCount,
		CommentCount: post.CommentsCount,
		IsLiked:      post.Liked,
		IsSaved:      post.Saved,
	}

	if post.User != nil {
		enriched.Author = post.User.FullName
		enriched.Username = post.User.Username
		enriched.Avatar = models.AvatarGlyph(post.User.FullName)
	}

	enriched.Images = make([]string, 0, len(post.Images))
	for _, img := range post.Images {
		enriched.Images = append(enriched.Images, img.ImageURL)
	}
	if len(enriched.Images) > 0 {
		enriched.Image = &enriched.Images[0]
	}

	comments, err := s.commentRepo.ListLatestByPost(ctx, post.ID, feedPreviewComments)
	if err != nil {
		return nil, err
	}
	enriched.Comments = make([]models.CommentView, 0, len(comments))
	// latest-first from the query, shown oldest-first
	for i := len(comments) - 1; i >= 0; i-- {
		enriched.Comments = append(enriched.Comments, toCommentView(comments[i]))
	}

	return enriched, nil
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
