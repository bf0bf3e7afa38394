package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/socio-africa/backend/internal/models"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, db *gorm.DB, recipient, initiator *models.User) *models.Notification {
	t.Helper()
	repo := NewNotificationRepository(db)
	n := &models.Notification{
		UserID:      recipient.ID,
		InitiatedBy: initiator.ID,
		Content:     initiator.Username + " liked your post",
		URL:         "https://socio.africa/posts/p1",
		Ref:         models.NotificationRef{Mode: models.NotifyReaction, RefID: "p1", PostID: "p1"},
	}
	require.NoError(t, repo.CreateNotification(context.Background(), n))
	return n
}

func TestListForUser_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedNotification(t, db, alice, bob)
	seedNotification(t, db, alice, bob)
	seedNotification(t, db, bob, alice)

	list, err := repo.ListForUser(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].Initiator.Username)

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMarkRead_OwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	n := seedNotification(t, db, alice, bob)

	// A different user cannot mark someone else's notification
	err := repo.MarkRead(ctx, bob.ID, n.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.MarkRead(ctx, alice.ID, n.ID))

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedNotification(t, db, alice, bob)
	seedNotification(t, db, alice, bob)

	require.NoError(t, repo.MarkAllRead(ctx, alice.ID))

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDeleteNotification(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	n := seedNotification(t, db, alice, bob)

	assert.ErrorIs(t, repo.DeleteNotification(ctx, bob.ID, n.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.DeleteNotification(ctx, alice.ID, n.ID))

	list, err := repo.ListForUser(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
