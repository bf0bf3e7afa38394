package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/socio-africa/backend/internal/models"
)

func TestCreateComment_TopLevel(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, "post")

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "hi"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	assert.Nil(t, comment.ParentCommentID)
	assert.Nil(t, comment.ReplyTo)

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateComment_ReplyToReplyReparents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	replier := seedUser(t, db, "replier")
	deep := seedUser(t, db, "deep")
	post := seedPost(t, db, author, "post")

	top := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "top"}
	require.NoError(t, repo.CreateComment(ctx, top))

	reply := &models.Comment{PostID: post.ID, UserID: replier.ID, Content: "reply", ParentCommentID: &top.ID}
	require.NoError(t, repo.CreateComment(ctx, reply))
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, top.ID, *reply.ParentCommentID)

	// A direct reply answers the parent comment's author
	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, author.ID, *reply.ReplyTo)

	// A reply to a reply lands under the top-level comment, tagging who it
	// answered so the thread stays readable.
	nested := &models.Comment{PostID: post.ID, UserID: deep.ID, Content: "nested", ParentCommentID: &reply.ID}
	require.NoError(t, repo.CreateComment(ctx, nested))
	require.NotNil(t, nested.ParentCommentID)
	assert.Equal(t, top.ID, *nested.ParentCommentID)
	require.NotNil(t, nested.ReplyTo)
	assert.Equal(t, replier.ID, *nested.ReplyTo)
}

func TestCreateComment_MissingParent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, "post")

	missing := "no-such-comment"
	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "hi", ParentCommentID: &missing}
	assert.ErrorIs(t, repo.CreateComment(ctx, comment), ErrCommentNotFound)
}

func TestDeleteComment_RemovesReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, "post")

	top := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "top"}
	require.NoError(t, repo.CreateComment(ctx, top))

	reply := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "reply", ParentCommentID: &top.ID}
	require.NoError(t, repo.CreateComment(ctx, reply))

	require.NoError(t, repo.DeleteComment(ctx, top.ID))

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestCommentToggleReaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	post := seedPost(t, db, author, "post")

	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "hi"}
	require.NoError(t, repo.CreateComment(ctx, comment))

	added, updated, err := repo.ToggleReaction(ctx, comment.ID, viewer.ID, models.ReactionDislike)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, updated.Reactions.Count(models.ReactionDislike))

	// Switching to like drops the dislike
	added, updated, err = repo.ToggleReaction(ctx, comment.ID, viewer.ID, models.ReactionLike)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 0, updated.Reactions.Count(models.ReactionDislike))
	assert.Equal(t, 1, updated.Reactions.Count(models.ReactionLike))
}

func TestListReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	replier := seedUser(t, db, "replier")
	post := seedPost(t, db, author, "post")

	top := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "top"}
	require.NoError(t, repo.CreateComment(ctx, top))
	other := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "other"}
	require.NoError(t, repo.CreateComment(ctx, other))

	reply := &models.Comment{PostID: post.ID, UserID: replier.ID, Content: "reply", ParentCommentID: &top.ID}
	require.NoError(t, repo.CreateComment(ctx, reply))

	replies, err := repo.ListReplies(ctx, top.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)
	assert.Equal(t, "replier", replies[0].User.Username)

	none, err := repo.ListReplies(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCommentListBookmarkedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	bookmarks := NewBookmarkRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author, "post")

	saved := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "keep this"}
	require.NoError(t, repo.CreateComment(ctx, saved))
	skipped := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "not this"}
	require.NoError(t, repo.CreateComment(ctx, skipped))

	_, err := bookmarks.ToggleCommentBookmark(ctx, reader.ID, saved.ID)
	require.NoError(t, err)

	got, err := repo.ListBookmarkedBy(ctx, reader.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved.ID, got[0].ID)
}

func TestSearchComments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author, "post")

	match := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "Jollof rice recipe"}
	require.NoError(t, repo.CreateComment(ctx, match))
	miss := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "unrelated"}
	require.NoError(t, repo.CreateComment(ctx, miss))

	got, err := repo.SearchComments(ctx, "jollof", 30, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, match.ID, got[0].ID)
}
