package service

import (
	"context"

	"pictora/internal/models"
	"pictora/internal/repository"

	"gorm.io/gorm"
)

// FollowService manages the follow graph.
type FollowService struct {
	db         *gorm.DB
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
}

func NewFollowService(
	db *gorm.DB,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
) *FollowService {
	return &FollowService{
		db:         db,
		followRepo: followRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
	}
}

// ToggleFollow follows the target if not already followed, otherwise
// unfollows. Following a user notifies them; self-follow is rejected.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followingID uint) (*ToggleResult, error) {
	if followerID == followingID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return nil, err
	}

	var following bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.followRepo.Insert(ctx, tx, followerID, followingID)
		if err != nil {
			return err
		}
		if !inserted {
			if _, err := s.followRepo.Delete(ctx, tx, followerID, followingID); err != nil {
				return err
			}
			following = false
			return nil
		}
		following = true

		actor, err := s.userRepo.GetByID(ctx, followerID)
		if err != nil {
			actor = nil
		}
		return s.notifRepo.Create(ctx, tx, &models.Notification{
			UserID:  followingID,
			ActorID: &followerID,
			Kind:    models.NotificationFollow,
			Message: followMessage(actor),
		})
	})
	if err != nil {
		return nil, err
	}

	count, err := s.followRepo.CountFollowers(ctx, followingID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Active: following, Count: count}, nil
}

// Followers lists the users following userID, most recent first.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

// Following lists the users userID follows, most recent first.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func toSummaries(users []*models.User) []models.UserSummary {
	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, models.UserSummary{
			ID:       u.ID,
			FullName: u.FullName,
			Username: u.Username,
			Bio:      u.Bio,
			Avatar:   models.AvatarGlyph(u.FullName),
		})
	}
	return summaries
}
