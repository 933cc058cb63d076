package service

import (
	"context"
	"strings"

	"pictora/internal/models"
	"pictora/internal/repository"
	"pictora/internal/validation"
)

// UserService handles profiles.
type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
}

type UpdateProfileInput struct {
	UserID   uint
	FullName *string
	Bio      *string
	Website  *string
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// GetProfile returns a user's profile with aggregate counts and whether the
// viewer follows them. viewerID 0 means anonymous.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	postCount, err := s.postRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != userID {
		isFollowing, err = s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &models.Profile{
		ID:             user.ID,
		FullName:       user.FullName,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		Website:        user.Website,
		CreatedAt:      user.CreatedAt,
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowing,
	}, nil
}

// UpdateProfile applies partial updates to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, models.NewValidationError("Full name cannot be empty")
		}
		user.FullName = name
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Website != nil {
		site := strings.TrimSpace(*in.Website)
		if site != "" && !validation.IsValidURL(site) {
			return nil, models.NewValidationError("Website must be a valid URL")
		}
		user.Website = site
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, user.ID, 0)
}
