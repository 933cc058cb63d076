package service

import (
	"context"
	"strings"

	"pictora/internal/cache"
	"pictora/internal/models"
	"pictora/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 500

// CommentService handles post comments and the notifications they produce.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
	}
}

// AddComment creates a comment and, when the commenter is not the post owner,
// a notification for the owner. Both commit atomically.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len([]rune(text)) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 500 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
			return err
		}
		if post.UserID == nil || *post.UserID == in.UserID {
			return nil
		}
		actor, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			actor = nil
		}
		return s.notifRepo.Create(ctx, tx, &models.Notification{
			UserID:  *post.UserID,
			ActorID: &in.UserID,
			PostID:  &post.ID,
			Kind:    models.NotificationComment,
			Message: commentMessage(actor, text),
		})
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns all comments on a post, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Only the comment author may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}
