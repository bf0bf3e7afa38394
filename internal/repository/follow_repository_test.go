package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFollow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, repo.CreateFollow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Follows are directed
	following, err = repo.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	assert.ErrorIs(t, repo.CreateFollow(ctx, alice.ID, bob.ID), ErrDuplicateFollow)
	assert.ErrorIs(t, repo.CreateFollow(ctx, alice.ID, alice.ID), ErrInvalidInput)
}

func TestDeleteFollow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, repo.CreateFollow(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.DeleteFollow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGetFollowerIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, repo.CreateFollow(ctx, bob.ID, alice.ID))
	require.NoError(t, repo.CreateFollow(ctx, carol.ID, alice.ID))

	ids, err := repo.GetFollowerIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.ID, carol.ID}, ids)

	count, err := repo.GetFollowerCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
