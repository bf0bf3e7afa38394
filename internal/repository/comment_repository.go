package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository handles all database operations for comments
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID string) error

	// ListByPost returns every comment on a post, oldest first, for tree
	// assembly.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)

	ListReplies(ctx context.Context, commentID string) ([]models.Comment, error)
	ListBookmarkedBy(ctx context.Context, userID string, limit, offset int) ([]models.Comment, error)
	SearchComments(ctx context.Context, query string, limit, offset int) ([]models.Comment, error)

	// ToggleReaction mirrors PostRepository.ToggleReaction for comments.
	ToggleReaction(ctx context.Context, commentID, userID string, kind models.ReactionKind) (added bool, comment *models.Comment, err error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// CreateComment creates a new comment. Replies carry ReplyTo pointing at the
// answered user, and a reply to a reply is flattened onto the parent's
// thread.
func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil || comment.PostID == "" || comment.UserID == "" {
		return ErrInvalidInput
	}

	if comment.ParentCommentID != nil {
		var parent models.Comment
		err := r.db.WithContext(ctx).Where("id = ?", *comment.ParentCommentID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		if err != nil {
			return err
		}

		// Keep the tree two levels deep
		if parent.ParentCommentID != nil {
			comment.ParentCommentID = parent.ParentCommentID
		}

		// Any reply records who it answered so the answered user gets
		// notified, not just the post author
		if comment.ReplyTo == nil {
			comment.ReplyTo = &parent.UserID
		}
	}

	return r.db.WithContext(ctx).Create(comment).Error
}

// GetComment gets a comment by ID with its author preloaded
func (r *commentRepository) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", commentID).
		First(&comment).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}

	return &comment, err
}

// UpdateComment updates a comment
func (r *commentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil || comment.ID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteComment soft deletes a comment and its replies
func (r *commentRepository) DeleteComment(ctx context.Context, commentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", commentID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", commentID).Delete(&models.Comment{}).Error
	})
}

// ListByPost returns all comments on a post, oldest first
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error

	return comments, err
}

// ListReplies returns the direct replies to a comment, oldest first
func (r *commentRepository) ListReplies(ctx context.Context, commentID string) ([]models.Comment, error) {
	var replies []models.Comment

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_comment_id = ?", commentID).
		Order("created_at ASC").
		Find(&replies).Error

	return replies, err
}

// ListBookmarkedBy returns comments the user bookmarked, most recently
// bookmarked first
func (r *commentRepository) ListBookmarkedBy(ctx context.Context, userID string, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment

	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN bookmarks ON bookmarks.comment_id = comments.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error

	return comments, err
}

// SearchComments searches comment content, newest first
func (r *commentRepository) SearchComments(ctx context.Context, query string, limit, offset int) ([]models.Comment, error) {
	var comments []models.Comment

	searchPattern := "%" + query + "%"

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("LOWER(content) LIKE LOWER(?)", searchPattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error

	return comments, err
}

// CountByPost counts all comments on a post, replies included
func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error

	return count, err
}

// ToggleReaction flips the (user, kind) reaction on a comment inside a
// transaction. The updated comment is returned for notification fanout.
func (r *commentRepository) ToggleReaction(ctx context.Context, commentID, userID string, kind models.ReactionKind) (bool, *models.Comment, error) {
	if !kind.Valid() || userID == "" {
		return false, nil, ErrInvalidInput
	}

	var added bool
	var comment models.Comment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", commentID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		comment.Reactions, added = toggleReaction(comment.Reactions, userID, kind)

		// Column updates skip the model's json serializer, so marshal here
		raw, err := json.Marshal(comment.Reactions)
		if err != nil {
			return err
		}

		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			Update("reactions", string(raw)).Error
	})
	if err != nil {
		return false, nil, err
	}

	return added, &comment, nil
}
