package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/socio-africa/backend/internal/auth"
	"github.com/socio-africa/backend/internal/notify"
	"github.com/socio-africa/backend/internal/repository"
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
			created_at DATETIME
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

// setupTestRouter builds a full API over an in-memory database with
// standalone JWT auth
func setupTestRouter(t *testing.T) (*gin.Engine, *Handlers, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)

	users := repository.NewUserRepository(db)
	authSvc := auth.NewService(nil, []byte("test-secret"), users)

	dispatcher := notify.NewDispatcher(
		users,
		repository.NewFollowRepository(db),
		repository.NewCommunityRepository(db),
		repository.NewNotificationRepository(db),
		"https://socio.africa",
	)
	dispatcher.Start()
	t.Cleanup(dispatcher.Stop)

	h := NewHandlers(db, authSvc, dispatcher)

	router := gin.New()
	h.RegisterRoutes(router)

	return router, h, db
}

func performRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type testUser struct {
	ID    string
	Token string
}

// registerUser goes through the real registration endpoint so the token and
// user row match production behavior
func registerUser(t *testing.T, router *gin.Engine, username string) testUser {
	t.Helper()

	w := performRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return testUser{
		ID:    user["id"].(string),
		Token: body["token"].(string),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	alice := registerUser(t, router, "alice")
	assert.NotEmpty(t, alice.Token)

	// Duplicate email conflicts
	w := performRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "alice@example.com",
		"username":   "alice2",
		"password":   "password123",
		"first_name": "Test",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := setupTestRouter(t)

	w := performRequest(t, router, http.MethodGet, "/api/v1/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/feed", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetMe(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")

	w := performRequest(t, router, http.MethodGet, "/api/v1/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	// Password hash never serializes
	_, leaked := user["password_hash"]
	assert.False(t, leaked)
}

func TestUpdateProfile(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")

	w := performRequest(t, router, http.MethodPatch, "/api/v1/me", alice.Token, gin.H{
		"bio": "hello there",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "hello there", user["bio"])
	assert.Equal(t, "Test", user["first_name"])
}
