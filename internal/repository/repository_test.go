package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/socio-africa/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// Create tables manually with SQLite-compatible syntax
	// (GORM AutoMigrate tries to use PostgreSQL-specific features like gen_random_uuid)
	for _, ddl := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			username TEXT NOT NULL,
			password_hash TEXT,
			first_name TEXT,
			last_name TEXT,
			phone_number TEXT,
			gender TEXT,
			bio TEXT,
			image TEXT,
			cover_image TEXT,
			topics TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE posts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content TEXT,
			file_urls TEXT,
			topic TEXT,
			visibility TEXT,
			reactions TEXT,
			parent_post_id TEXT,
			shared_by TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE comments (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			parent_comment_id TEXT,
			reply_to TEXT,
			reactions TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE bookmarks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			post_id TEXT,
			comment_id TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE follows (
			id TEXT PRIMARY KEY,
			follower_id TEXT NOT NULL,
			following_id TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE (follower_id, following_id)
		)`,
		`CREATE TABLE communities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			visibility TEXT,
			created_by TEXT NOT NULL,
			topics TEXT,
			image TEXT,
			cover_image TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE community_members (
			id TEXT PRIMARY KEY,
			community_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME,
			UNIQUE (community_id, user_id)
		)`,
		`CREATE TABLE topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			topic_ref TEXT NOT NULL UNIQUE,
			created_at DATETIME
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			initiated_by TEXT NOT NULL,
			content TEXT,
			url TEXT,
			read BOOLEAN DEFAULT FALSE,
			ref TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    username + "@example.com",
		Username: username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, user *models.User, content string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:  user.ID,
		Content: content,
		Topic:   "technology",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
