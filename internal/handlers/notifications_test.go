package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotificationEndToEnd drives a reaction through the dispatcher and reads
// it back over the notification endpoints.
func TestNotificationEndToEnd(t *testing.T) {
	router, h, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "notify me")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/reaction", bob.Token, gin.H{"reaction": "like"})
	require.Equal(t, http.StatusOK, w.Code)

	// Delivery is asynchronous; stopping the dispatcher drains the queue
	h.dispatcher.Stop()

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications/unread-count", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["unread"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["notifications"].([]interface{})
	require.Len(t, list, 1)

	n := list[0].(map[string]interface{})
	assert.Contains(t, n["content"], "liked your post")
	assert.Equal(t, false, n["read"])
	assert.Equal(t, "bob", n["initiator"].(map[string]interface{})["username"])
	notificationID := n["id"].(string)

	// Bob sees nothing: notifications are per-recipient
	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["notifications"])

	// And bob cannot touch alice's notification
	w = performRequest(t, router, http.MethodPatch, "/api/v1/notifications/"+notificationID+"/read", bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, router, http.MethodPatch, "/api/v1/notifications/"+notificationID+"/read", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications/unread-count", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["unread"])

	w = performRequest(t, router, http.MethodDelete, "/api/v1/notifications/"+notificationID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["notifications"])
}

func TestMarkAllNotificationsRead(t *testing.T) {
	router, h, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "busy thread")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/reaction", bob.Token, gin.H{"reaction": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/comments", bob.Token, gin.H{"content": "nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	h.dispatcher.Stop()

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications/unread-count", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["unread"])

	w = performRequest(t, router, http.MethodPatch, "/api/v1/notifications/read-all", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/notifications/unread-count", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decodeBody(t, w)["unread"])
}
