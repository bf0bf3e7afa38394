package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository handles all database operations for posts, including share
// pointers and the embedded reaction list.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, postID string) error

	// Feed queries, newest first
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Post, error)
	ListByTopics(ctx context.Context, topics []string, limit, offset int) ([]models.Post, error)
	ListByCommunity(ctx context.Context, communityID string, limit, offset int) ([]models.Post, error)
	ListBookmarkedBy(ctx context.Context, userID string, limit, offset int) ([]models.Post, error)
	ListReactedBy(ctx context.Context, userID string, kind models.ReactionKind, limit, offset int) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string, limit, offset int) ([]models.Post, error)

	// Share pointers
	CreateShare(ctx context.Context, parentPostID, userID string) (*models.Post, error)
	DeleteShare(ctx context.Context, parentPostID, userID string) error
	CountShares(ctx context.Context, postID string) (int64, error)
	HasShared(ctx context.Context, postID, userID string) (bool, error)

	// ToggleReaction atomically flips the (user, kind) reaction on a post.
	// Returns whether the reaction is present after the call, plus the post
	// author for notification fanout.
	ToggleReaction(ctx context.Context, postID, userID string, kind models.ReactionKind) (added bool, authorID string, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreatePost creates a new post
func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.UserID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(post).Error
}

// GetPost gets a post by ID with its author preloaded
func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", postID).
		First(&post).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}

	return &post, err
}

// UpdatePost updates a post
func (r *postRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	if post == nil || post.ID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Save(post).Error
}

// DeletePost soft deletes a post. Share pointers at it become dangling and
// are skipped by the feed assembler.
func (r *postRepository) DeletePost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", postID).
		Delete(&models.Post{}).Error
}

// ListByUser returns a user's posts and shares, newest first
func (r *postRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR shared_by = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// ListByTopics returns the home feed: public posts in any of the viewer's
// topics, newest first.
func (r *postRepository) ListByTopics(ctx context.Context, topics []string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	q := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)

	if len(topics) > 0 {
		q = q.Where("topic IN ?", topics)
	}

	err := q.Find(&posts).Error
	return posts, err
}

// ListByCommunity returns posts scoped to a community, newest first
func (r *postRepository) ListByCommunity(ctx context.Context, communityID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("visibility->>'mode' = ? AND visibility->>'community_id' = ?",
			string(models.VisibilityCommunity), communityID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// ListBookmarkedBy returns posts the user has bookmarked, newest bookmark
// first.
func (r *postRepository) ListBookmarkedBy(ctx context.Context, userID string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// ListReactedBy returns posts carrying the user's reaction of the given
// kind, newest first. The embedded reaction list needs a containment query,
// which each driver spells differently.
func (r *postRepository) ListReactedBy(ctx context.Context, userID string, kind models.ReactionKind, limit, offset int) ([]models.Post, error) {
	if !kind.Valid() {
		return nil, ErrInvalidInput
	}

	var posts []models.Post

	q := r.db.WithContext(ctx).Preload("User")
	if r.db.Dialector.Name() == "postgres" {
		entry, err := json.Marshal(models.ReactionList{{UserID: userID, Kind: kind}})
		if err != nil {
			return nil, err
		}
		q = q.Where("reactions @> ?", string(entry))
	} else {
		q = q.Where(
			"EXISTS (SELECT 1 FROM json_each(posts.reactions) WHERE json_extract(json_each.value, '$.user_id') = ? AND json_extract(json_each.value, '$.reaction') = ?)",
			userID, string(kind))
	}

	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// SearchPosts searches post content, newest first
func (r *postRepository) SearchPosts(ctx context.Context, query string, limit, offset int) ([]models.Post, error) {
	var posts []models.Post

	searchPattern := "%" + query + "%"

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("LOWER(content) LIKE LOWER(?)", searchPattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error

	return posts, err
}

// CreateShare writes a share pointer at the parent post. One share per user
// per post.
func (r *postRepository) CreateShare(ctx context.Context, parentPostID, userID string) (*models.Post, error) {
	if parentPostID == "" || userID == "" {
		return nil, ErrInvalidInput
	}

	// The parent must exist and must itself be an original post; sharing a
	// share pointer targets its source instead.
	parent, err := r.GetPost(ctx, parentPostID)
	if err != nil {
		return nil, err
	}
	if parent.IsShare() {
		parentPostID = *parent.ParentPostID
	}

	already, err := r.HasShared(ctx, parentPostID, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrDuplicateShare
	}

	share := models.Post{
		UserID:       userID,
		ParentPostID: &parentPostID,
		SharedBy:     &userID,
		Topic:        parent.Topic,
		Visibility:   parent.Visibility,
	}
	if err := r.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, err
	}

	return &share, nil
}

// DeleteShare removes the user's share pointer at a post
func (r *postRepository) DeleteShare(ctx context.Context, parentPostID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("parent_post_id = ? AND shared_by = ?", parentPostID, userID).
		Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// CountShares counts share pointers at a post
func (r *postRepository) CountShares(ctx context.Context, postID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("parent_post_id = ?", postID).
		Count(&count).Error

	return count, err
}

// HasShared checks whether the user has an active share pointer at the post
func (r *postRepository) HasShared(ctx context.Context, postID, userID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("parent_post_id = ? AND shared_by = ?", postID, userID).
		Count(&count).Error

	return count > 0, err
}

// ToggleReaction flips the (user, kind) reaction inside a transaction so two
// concurrent toggles cannot both observe the pre-toggle list.
func (r *postRepository) ToggleReaction(ctx context.Context, postID, userID string, kind models.ReactionKind) (bool, string, error) {
	if !kind.Valid() || userID == "" {
		return false, "", ErrInvalidInput
	}

	var added bool
	var authorID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post

		q := tx.Where("id = ?", postID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		authorID = post.UserID
		post.Reactions, added = toggleReaction(post.Reactions, userID, kind)

		// Column updates skip the model's json serializer, so marshal here
		raw, err := json.Marshal(post.Reactions)
		if err != nil {
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("reactions", string(raw)).Error
	})

	return added, authorID, err
}

// toggleReaction applies the toggle semantics to an embedded reaction list:
// an existing (user, kind) entry is removed; otherwise the entry is added and
// any (user, opposite-kind) entry is dropped in the same write.
func toggleReaction(list models.ReactionList, userID string, kind models.ReactionKind) (models.ReactionList, bool) {
	if list.Has(userID, kind) {
		out := make(models.ReactionList, 0, len(list))
		for _, entry := range list {
			if entry.UserID == userID && entry.Kind == kind {
				continue
			}
			out = append(out, entry)
		}
		return out, false
	}

	out := make(models.ReactionList, 0, len(list)+1)
	for _, entry := range list {
		if entry.UserID == userID && entry.Kind == kind.Opposite() {
			continue
		}
		out = append(out, entry)
	}
	out = append(out, models.Reaction{UserID: userID, Kind: kind})
	return out, true
}
