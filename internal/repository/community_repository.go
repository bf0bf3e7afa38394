package repository

import (
	"context"
	"errors"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

// CommunityRepository handles communities and their membership
type CommunityRepository interface {
	// CreateCommunity creates the community and its super_admin membership
	// for the creator in one transaction.
	CreateCommunity(ctx context.Context, community *models.Community) error
	GetCommunity(ctx context.Context, communityID string) (*models.Community, error)
	UpdateCommunity(ctx context.Context, community *models.Community) error
	DeleteCommunity(ctx context.Context, communityID string) error
	ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error)
	ListForUser(ctx context.Context, userID string) ([]models.Community, error)
	SearchCommunities(ctx context.Context, query string, limit, offset int) ([]models.Community, error)

	AddMember(ctx context.Context, communityID, userID string, role models.MemberRole) error
	RemoveMember(ctx context.Context, communityID, userID string) error
	GetMember(ctx context.Context, communityID, userID string) (*models.CommunityMember, error)
	ListMembers(ctx context.Context, communityID string, limit, offset int) ([]models.CommunityMember, error)
	GetMemberIDs(ctx context.Context, communityID string) ([]string, error)
	UpdateMemberRole(ctx context.Context, communityID, userID string, role models.MemberRole) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new community repository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

// CreateCommunity creates a community with its creator as super_admin. If the
// membership insert fails the community row is rolled back with it.
func (r *communityRepository) CreateCommunity(ctx context.Context, community *models.Community) error {
	if community == nil || community.Name == "" || community.CreatedBy == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}

		member := models.CommunityMember{
			CommunityID: community.ID,
			UserID:      community.CreatedBy,
			Role:        models.RoleSuperAdmin,
		}
		return tx.Create(&member).Error
	})
}

// GetCommunity gets a community by ID
func (r *communityRepository) GetCommunity(ctx context.Context, communityID string) (*models.Community, error) {
	var community models.Community
	err := r.db.WithContext(ctx).Where("id = ?", communityID).First(&community).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommunityNotFound
	}

	return &community, err
}

// UpdateCommunity updates a community
func (r *communityRepository) UpdateCommunity(ctx context.Context, community *models.Community) error {
	if community == nil || community.ID == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Save(community).Error
}

// DeleteCommunity soft deletes a community and removes its memberships
func (r *communityRepository) DeleteCommunity(ctx context.Context, communityID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", communityID).Delete(&models.CommunityMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", communityID).Delete(&models.Community{}).Error
	})
}

// ListCommunities lists communities, newest first
func (r *communityRepository) ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error) {
	var communities []models.Community

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error

	return communities, err
}

// SearchCommunities searches community names and descriptions
func (r *communityRepository) SearchCommunities(ctx context.Context, query string, limit, offset int) ([]models.Community, error) {
	var communities []models.Community

	searchPattern := "%" + query + "%"

	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", searchPattern, searchPattern).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error

	return communities, err
}

// ListForUser lists communities the user belongs to
func (r *communityRepository) ListForUser(ctx context.Context, userID string) ([]models.Community, error) {
	var communities []models.Community

	err := r.db.WithContext(ctx).
		Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.user_id = ?", userID).
		Order("community_members.created_at DESC").
		Find(&communities).Error

	return communities, err
}

// AddMember adds a user to a community. Joining twice is a conflict.
func (r *communityRepository) AddMember(ctx context.Context, communityID, userID string, role models.MemberRole) error {
	if communityID == "" || userID == "" {
		return ErrInvalidInput
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateMember
	}

	member := models.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
	}
	return r.db.WithContext(ctx).Create(&member).Error
}

// RemoveMember removes a user from a community. The super_admin cannot
// leave.
func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID string) error {
	member, err := r.GetMember(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if member.Role == models.RoleSuperAdmin {
		return ErrSuperAdminLeave
	}

	return r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&models.CommunityMember{}).Error
}

// GetMember gets one membership row
func (r *communityRepository) GetMember(ctx context.Context, communityID, userID string) (*models.CommunityMember, error) {
	var member models.CommunityMember
	err := r.db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&member).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}

	return &member, err
}

// ListMembers lists community members with their users preloaded
func (r *communityRepository) ListMembers(ctx context.Context, communityID string, limit, offset int) ([]models.CommunityMember, error) {
	var members []models.CommunityMember

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&members).Error

	return members, err
}

// GetMemberIDs returns every member's user ID, used by the notification
// dispatcher for community post fanout.
func (r *communityRepository) GetMemberIDs(ctx context.Context, communityID string) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ?", communityID).
		Pluck("user_id", &ids).Error

	return ids, err
}

// UpdateMemberRole changes a member's role
func (r *communityRepository) UpdateMemberRole(ctx context.Context, communityID, userID string, role models.MemberRole) error {
	res := r.db.WithContext(ctx).
		Model(&models.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}
