package repository

import (
	"context"
	"errors"

	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

// TopicRepository handles global interest topics. Topics are deduplicated by
// their slugged topic_ref.
type TopicRepository interface {
	// EnsureTopic returns the existing topic for the ref or creates it.
	EnsureTopic(ctx context.Context, name, topicRef string) (*models.Topic, error)
	GetByRef(ctx context.Context, topicRef string) (*models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

// EnsureTopic finds or creates the topic for the given ref
func (r *topicRepository) EnsureTopic(ctx context.Context, name, topicRef string) (*models.Topic, error) {
	if name == "" || topicRef == "" {
		return nil, ErrInvalidInput
	}

	var topic models.Topic
	err := r.db.WithContext(ctx).Where("topic_ref = ?", topicRef).First(&topic).Error
	if err == nil {
		return &topic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	topic = models.Topic{Name: name, TopicRef: topicRef}
	if err := r.db.WithContext(ctx).Create(&topic).Error; err != nil {
		return nil, err
	}

	return &topic, nil
}

// GetByRef gets a topic by its slug
func (r *topicRepository) GetByRef(ctx context.Context, topicRef string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).Where("topic_ref = ?", topicRef).First(&topic).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTopicNotFound
	}

	return &topic, err
}

// ListTopics lists all topics alphabetically
func (r *topicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic

	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&topics).Error

	return topics, err
}
