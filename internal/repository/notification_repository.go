package repository

import (
	"context"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository handles persisted in-app notifications
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateNotification persists one notification
func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification == nil || notification.UserID == "" || notification.InitiatedBy == "" {
		return ErrInvalidInput
	}

	return r.db.WithContext(ctx).Create(notification).Error
}

// ListForUser returns the user's inbox, newest first, with initiators
// preloaded.
func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification

	err := r.db.WithContext(ctx).
		Preload("Initiator").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error

	return notifications, err
}

// UnreadCount counts unread notifications
func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error

	return count, err
}

// MarkRead marks one notification read. Scoped to the owner so users cannot
// touch each other's inboxes.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllRead marks the whole inbox read
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// DeleteNotification removes one notification from the owner's inbox
func (r *notificationRepository) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
