package service

import (
	"context"

	"pictora/internal/cache"
	"pictora/internal/models"
	"pictora/internal/repository"

	"gorm.io/gorm"
)

// InteractionService handles like and save toggles. A like toggle and the
// notification it produces commit in the same transaction so a rolled-back
// like never leaves a stray notification.
type InteractionService struct {
	db              *gorm.DB
	interactionRepo repository.InteractionRepository
	postRepo        repository.PostRepository
	userRepo        repository.UserRepository
	notifRepo       repository.NotificationRepository
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

func NewInteractionService(
	db *gorm.DB,
	interactionRepo repository.InteractionRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
) *InteractionService {
	return &InteractionService{
		db:              db,
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		userRepo:        userRepo,
		notifRepo:       notifRepo,
	}
}

// ToggleLike likes the post if the user has not liked it, otherwise removes
// the like. Liking someone else's post notifies the owner.
func (s *InteractionService) ToggleLike(ctx context.Context, postID, userID uint) (*ToggleResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}

	var liked bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.interactionRepo.InsertLike(ctx, tx, postID, userID)
		if err != nil {
			return err
		}
		if !inserted {
			if _, err := s.interactionRepo.DeleteLike(ctx, tx, postID, userID); err != nil {
				return err
			}
			liked = false
			return nil
		}
		liked = true
		return s.notifyPostOwner(ctx, tx, post, userID, models.NotificationLike)
	})
	if err != nil {
		return nil, err
	}

	count, err := s.interactionRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return &ToggleResult{Active: liked, Count: count}, nil
}

// ToggleSave bookmarks the post for the user, or removes the bookmark.
// Saves are private and never notify the post owner.
func (s *InteractionService) ToggleSave(ctx context.Context, postID, userID uint) (*ToggleResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	inserted, err := s.interactionRepo.InsertSave(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	saved := inserted
	if !inserted {
		if _, err := s.interactionRepo.DeleteSave(ctx, postID, userID); err != nil {
			return nil, err
		}
	}

	return &ToggleResult{Active: saved}, nil
}

// notifyPostOwner writes a notification to the post owner unless the actor is
// the owner or the post has no owner.
func (s *InteractionService) notifyPostOwner(ctx context.Context, tx *gorm.DB, post *models.Post, actorID uint, kind string) error {
	if post.UserID == nil || *post.UserID == actorID {
		return nil
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		actor = nil
	}

	var message string
	switch kind {
	case models.NotificationLike:
		message = likeMessage(actor)
	default:
		return nil
	}

	return s.notifRepo.Create(ctx, tx, &models.Notification{
		UserID:  *post.UserID,
		ActorID: &actorID,
		PostID:  &post.ID,
		Kind:    kind,
		Message: message,
	})
}
