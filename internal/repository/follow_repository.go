package repository

import (
	"context"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository handles the follower graph
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, followingID string) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)

	GetFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	GetFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error)
	GetFollowerIDs(ctx context.Context, userID string) ([]string, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
	GetFollowerCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// CreateFollow creates a follow edge. Re-following is a no-op conflict.
func (r *followRepository) CreateFollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" || followerID == followingID {
		return ErrInvalidInput
	}

	existing, err := r.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if existing {
		return ErrDuplicateFollow
	}

	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	return r.db.WithContext(ctx).Create(&follow).Error
}

// DeleteFollow removes a follow edge
func (r *followRepository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// IsFollowing checks if follower follows following
func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error

	return count > 0, err
}

// GetFollowers gets users following the given user
func (r *followRepository) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User

	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error

	return users, err
}

// GetFollowing gets users that the given user follows
func (r *followRepository) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User

	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error

	return users, err
}

// GetFollowerIDs returns every follower's ID, used by the notification
// dispatcher for post fanout.
func (r *followRepository) GetFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error

	return ids, err
}

// GetFollowingIDs returns the IDs of everyone the user follows
func (r *followRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error

	return ids, err
}

// GetFollowerCount gets follower count for a user
func (r *followRepository) GetFollowerCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error

	return count, err
}

// GetFollowingCount gets following count for a user
func (r *followRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error

	return count, err
}
