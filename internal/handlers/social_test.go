package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, router *gin.Engine, user testUser, content string) string {
	t.Helper()

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts", user.Token, gin.H{
		"content": content,
		"topic":   "technology",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	post := body["post"].(map[string]interface{})
	return post["id"].(string)
}

func TestPostLifecycle(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "hello world")

	// Anyone can read it
	w := performRequest(t, router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "hello world", post["content"])
	assert.Equal(t, "alice", post["user"].(map[string]interface{})["username"])

	// Only the author can edit
	w = performRequest(t, router, http.MethodPatch, "/api/v1/posts/"+postID, bob.Token, gin.H{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(t, router, http.MethodPatch, "/api/v1/posts/"+postID, alice.Token, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	// Only the author can delete
	w = performRequest(t, router, http.MethodDelete, "/api/v1/posts/"+postID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(t, router, http.MethodDelete, "/api/v1/posts/"+postID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePost_NeedsContentOrFiles(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts", alice.Token, gin.H{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/posts", alice.Token, gin.H{
		"file_urls": []string{"https://cdn.example.com/a.png"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReactionToggle(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "react to me")
	path := "/api/v1/posts/" + postID + "/reaction"

	w := performRequest(t, router, http.MethodPost, path, bob.Token, gin.H{"reaction": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["added"])
	reactions := body["reactions"].(map[string]interface{})
	like := reactions["like"].(map[string]interface{})
	assert.EqualValues(t, 1, like["count"])
	assert.Equal(t, true, like["liked"])

	// Disliking replaces the like
	w = performRequest(t, router, http.MethodPost, path, bob.Token, gin.H{"reaction": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	reactions = body["reactions"].(map[string]interface{})
	assert.EqualValues(t, 0, reactions["like"].(map[string]interface{})["count"])
	assert.EqualValues(t, 1, reactions["dislike"].(map[string]interface{})["count"])

	// Repeating removes it
	w = performRequest(t, router, http.MethodPost, path, bob.Token, gin.H{"reaction": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["added"])
	reactions = body["reactions"].(map[string]interface{})
	assert.EqualValues(t, 0, reactions["dislike"].(map[string]interface{})["count"])

	// Invalid kinds are rejected
	w = performRequest(t, router, http.MethodPost, path, bob.Token, gin.H{"reaction": "love"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBookmarkToggleAndList(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "bookmark me")
	path := "/api/v1/posts/" + postID + "/bookmark"

	w := performRequest(t, router, http.MethodPost, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["bookmarked"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/me/bookmarks", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	first := posts[0].(map[string]interface{})
	assert.Equal(t, postID, first["id"])
	assert.Equal(t, true, first["bookmarked"])

	// Toggle off
	w = performRequest(t, router, http.MethodPost, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["bookmarked"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/me/bookmarks", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["posts"])
}

func TestShareFlow(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "share me")
	path := "/api/v1/posts/" + postID + "/share"

	w := performRequest(t, router, http.MethodPost, path, bob.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	share := decodeBody(t, w)["share"].(map[string]interface{})
	shareID := share["id"].(string)
	assert.Equal(t, postID, share["parent_post_id"])

	// Sharing again toggles the pointer off
	w = performRequest(t, router, http.MethodPost, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["shared"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["posts"])

	// Share once more for the rest of the flow
	w = performRequest(t, router, http.MethodPost, path, bob.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	share = decodeBody(t, w)["share"].(map[string]interface{})
	shareID = share["id"].(string)

	// Reading the share shows the source content with share fields
	w = performRequest(t, router, http.MethodGet, "/api/v1/posts/"+shareID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody(t, w)["post"].(map[string]interface{})
	assert.Equal(t, "share me", view["content"])
	assert.Equal(t, "alice", view["user"].(map[string]interface{})["username"])
	assert.Equal(t, postID, view["parent_post_id"])
	assert.Equal(t, bob.ID, view["shared_by"])

	// The share shows on bob's profile feed
	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)

	// Unshare, then the pointer is gone
	w = performRequest(t, router, http.MethodDelete, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["posts"])
}

func TestDanglingShareDisappearsFromFeeds(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "short lived")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/share", bob.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	shareID := decodeBody(t, w)["share"].(map[string]interface{})["id"].(string)

	w = performRequest(t, router, http.MethodDelete, "/api/v1/posts/"+postID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The share pointer resolves to nothing: single fetch is 404
	w = performRequest(t, router, http.MethodGet, "/api/v1/posts/"+shareID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// And feeds silently skip it
	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["posts"])
}

func TestCommentFlow(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "discuss")
	commentsPath := "/api/v1/posts/" + postID + "/comments"

	w := performRequest(t, router, http.MethodPost, commentsPath, bob.Token, gin.H{"content": "first!"})
	require.Equal(t, http.StatusCreated, w.Code)
	first := decodeBody(t, w)["comment"].(map[string]interface{})
	firstID := first["id"].(string)

	w = performRequest(t, router, http.MethodPost, commentsPath, alice.Token, gin.H{
		"content":           "thanks",
		"parent_comment_id": firstID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The tree endpoint nests the reply under the top-level comment
	w = performRequest(t, router, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decodeBody(t, w)["comments"].([]interface{})
	require.Len(t, tree, 1)
	top := tree[0].(map[string]interface{})
	assert.Equal(t, "first!", top["content"])
	replies := top["replies"].([]interface{})
	require.Len(t, replies, 1)
	assert.Equal(t, "thanks", replies[0].(map[string]interface{})["content"])

	// Single post fetch includes the tree and the count
	w = performRequest(t, router, http.MethodGet, "/api/v1/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	post := decodeBody(t, w)["post"].(map[string]interface{})
	assert.EqualValues(t, 2, post["comments_count"])
	require.NotNil(t, post["comments"])

	// Only the author can delete, and deletion removes replies
	w = performRequest(t, router, http.MethodDelete, "/api/v1/comments/"+firstID, alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(t, router, http.MethodDelete, "/api/v1/comments/"+firstID, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, commentsPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["comments"])
}

func TestFollowAndProfile(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	w := performRequest(t, router, http.MethodPost, "/api/v1/users/"+alice.ID+"/follow", bob.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/users/"+alice.ID+"/follow", bob.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/users/"+bob.ID+"/follow", bob.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+alice.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["followers_count"])
	assert.Equal(t, true, body["is_following"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+alice.ID+"/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := decodeBody(t, w)["users"].([]interface{})
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].(map[string]interface{})["username"])

	w = performRequest(t, router, http.MethodDelete, "/api/v1/users/"+alice.ID+"/follow", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHomeFeedFiltersByTopics(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	createPost(t, router, alice, "tech post")
	w := performRequest(t, router, http.MethodPost, "/api/v1/posts", alice.Token, gin.H{
		"content": "sports post",
		"topic":   "sports",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Bob subscribes to technology only
	w = performRequest(t, router, http.MethodPut, "/api/v1/me/topics", bob.Token, gin.H{
		"topics": []string{"technology"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/feed", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "tech post", posts[0].(map[string]interface{})["content"])

	// No topics means the firehose
	w = performRequest(t, router, http.MethodGet, "/api/v1/feed", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"].([]interface{}), 2)
}

func TestSearch(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	registerUser(t, router, "bob")

	createPost(t, router, alice, "golang generics deep dive")
	createPost(t, router, alice, "gardening tips")

	w := performRequest(t, router, http.MethodGet, "/api/v1/search/posts?q=golang", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)

	w = performRequest(t, router, http.MethodGet, "/api/v1/search/users?q=ali", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody(t, w)["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].(map[string]interface{})["username"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/search/posts", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetSingleComment(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "original")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/comments", alice.Token, gin.H{
		"content": "top level",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := decodeBody(t, w)["comment"].(map[string]interface{})["id"].(string)

	w = performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/comments", bob.Token, gin.H{
		"content":           "a reply",
		"parent_comment_id": commentID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/comments/"+commentID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comment := decodeBody(t, w)["comment"].(map[string]interface{})
	assert.Equal(t, "top level", comment["content"])
	replies := comment["replies"].([]interface{})
	require.Len(t, replies, 1)
	assert.Equal(t, "a reply", replies[0].(map[string]interface{})["content"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/comments/nonexistent", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookmarkedCommentsList(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	postID := createPost(t, router, alice, "original")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/comments", alice.Token, gin.H{
		"content": "worth saving",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := decodeBody(t, w)["comment"].(map[string]interface{})["id"].(string)

	w = performRequest(t, router, http.MethodPost, "/api/v1/comments/"+commentID+"/bookmark", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/me/bookmarks/comments", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeBody(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	saved := comments[0].(map[string]interface{})
	assert.Equal(t, "worth saving", saved["content"])
	assert.Equal(t, true, saved["bookmarked"])

	// Alice never bookmarked anything
	w = performRequest(t, router, http.MethodGet, "/api/v1/me/bookmarks/comments", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["comments"])
}

func TestSearchCommentsAndCommunities(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")

	postID := createPost(t, router, alice, "a post")
	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/comments", alice.Token, gin.H{
		"content": "suya spot recommendations",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodPost, "/api/v1/communities", alice.Token, gin.H{
		"name":        "Nairobi Devs",
		"description": "engineers in nairobi",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/search/comments?q=suya", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeBody(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "suya spot recommendations", comments[0].(map[string]interface{})["content"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/search/communities?q=nairobi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	communities := decodeBody(t, w)["communities"].([]interface{})
	require.Len(t, communities, 1)
	assert.Equal(t, "Nairobi Devs", communities[0].(map[string]interface{})["name"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/search/communities", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUserLikedAndDislikedPosts(t *testing.T) {
	router, _, _ := setupTestRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	likedID := createPost(t, router, alice, "liked post")
	dislikedID := createPost(t, router, alice, "disliked post")
	createPost(t, router, alice, "ignored post")

	w := performRequest(t, router, http.MethodPost, "/api/v1/posts/"+likedID+"/reaction", bob.Token, gin.H{"reaction": "like"})
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(t, router, http.MethodPost, "/api/v1/posts/"+dislikedID+"/reaction", bob.Token, gin.H{"reaction": "dislike"})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/likes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "liked post", posts[0].(map[string]interface{})["content"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/"+bob.ID+"/dislikes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts = decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "disliked post", posts[0].(map[string]interface{})["content"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/users/nobody/likes", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
