package repository

import (
	"context"

	"pictora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository covers likes and saved posts. Insert operations are
// conflict-safe: a concurrent duplicate insert is reported as inserted=false
// rather than an error.
type InteractionRepository interface {
	InsertLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error)
	DeleteLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)

	InsertSave(ctx context.Context, postID, userID uint) (bool, error)
	DeleteSave(ctx context.Context, postID, userID uint) (bool, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// conn picks the caller's transaction when one is provided so a like insert
// can share a transaction with its notification.
func (r *interactionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *interactionRepository) InsertLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error) {
	like := models.Like{PostID: postID, UserID: userID}
	res := r.conn(tx).WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *interactionRepository) DeleteLike(ctx context.Context, tx *gorm.DB, postID, userID uint) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *interactionRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *interactionRepository) InsertSave(ctx context.Context, postID, userID uint) (bool, error) {
	saved := models.SavedPost{PostID: postID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *interactionRepository) DeleteSave(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.SavedPost{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}
