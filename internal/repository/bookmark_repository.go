package repository

import (
	"context"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkRepository handles saved posts and comments
type BookmarkRepository interface {
	// TogglePostBookmark flips the bookmark on a post, returning whether it
	// is present after the call.
	TogglePostBookmark(ctx context.Context, userID, postID string) (bookmarked bool, err error)
	ToggleCommentBookmark(ctx context.Context, userID, commentID string) (bookmarked bool, err error)

	ExistsForPost(ctx context.Context, userID, postID string) (bool, error)
	ExistsForComment(ctx context.Context, userID, commentID string) (bool, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

// TogglePostBookmark removes an existing bookmark or creates one
func (r *bookmarkRepository) TogglePostBookmark(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" || postID == "" {
		return false, ErrInvalidInput
	}

	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			bookmarked = false
			return nil
		}

		bookmarked = true
		return tx.Create(&models.Bookmark{UserID: userID, PostID: &postID}).Error
	})

	return bookmarked, err
}

// ToggleCommentBookmark removes an existing bookmark or creates one
func (r *bookmarkRepository) ToggleCommentBookmark(ctx context.Context, userID, commentID string) (bool, error) {
	if userID == "" || commentID == "" {
		return false, ErrInvalidInput
	}

	var bookmarked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&models.Bookmark{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			bookmarked = false
			return nil
		}

		bookmarked = true
		return tx.Create(&models.Bookmark{UserID: userID, CommentID: &commentID}).Error
	})

	return bookmarked, err
}

// ExistsForPost checks whether the user bookmarked the post
func (r *bookmarkRepository) ExistsForPost(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error

	return count > 0, err
}

// ExistsForComment checks whether the user bookmarked the comment
func (r *bookmarkRepository) ExistsForComment(ctx context.Context, userID, commentID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error

	return count > 0, err
}
