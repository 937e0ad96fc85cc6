package friends

import (
	"context"
	"testing"

	"fulvo/backend/internal/models"
	"fulvo/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestAcceptRemove(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store)
	ctx := context.Background()
	ana := testutil.CreatePlayer(t, store, "ana", 900)
	beto := testutil.CreatePlayer(t, store, "beto", 1000)

	f, target, err := svc.Request(ctx, ana.ID, beto.ID)
	require.NoError(t, err)
	assert.Equal(t, "beto", target.Name)
	assert.Equal(t, models.StatusPending, f.Status)

	rel, id, err := svc.Status(ctx, ana.ID, beto.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationSent, rel)
	require.NotNil(t, id)
	assert.Equal(t, f.ID, *id)

	rel, _, err = svc.Status(ctx, beto.ID, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationReceived, rel)

	_, _, err = svc.Request(ctx, beto.ID, ana.ID)
	assert.ErrorIs(t, err, ErrRequestPending)

	pending, err := svc.Pending(ctx, beto.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ana", pending[0].User.Name)

	sent, err := svc.Sent(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "beto", sent[0].User.Name)

	_, err = svc.Accept(ctx, ana.ID, f.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound, "only the addressee may accept")

	requester, err := svc.Accept(ctx, beto.ID, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", requester.Name)

	_, err = svc.Accept(ctx, beto.ID, f.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, _, err = svc.Request(ctx, ana.ID, beto.ID)
	assert.ErrorIs(t, err, ErrAlreadyFriends)

	friends, err := svc.Friends(ctx, beto.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, ana.ID, friends[0].User.ID)

	pendingRemoved, err := svc.Remove(ctx, beto.ID, f.ID)
	require.NoError(t, err)
	assert.False(t, pendingRemoved)

	rel, id, err = svc.Status(ctx, ana.ID, beto.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationNone, rel)
	assert.Nil(t, id)
}

func TestRequestErrors(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store)
	ctx := context.Background()
	ana := testutil.CreatePlayer(t, store, "ana", 900)

	_, _, err := svc.Request(ctx, ana.ID, ana.ID)
	assert.ErrorIs(t, err, ErrSelfRequest)
	_, _, err = svc.Request(ctx, ana.ID, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	rel, _, err := svc.Status(ctx, ana.ID, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationSelf, rel)
}

func TestRemoveRejectsStrangers(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store)
	ctx := context.Background()
	ana := testutil.CreatePlayer(t, store, "ana", 900)
	beto := testutil.CreatePlayer(t, store, "beto", 900)
	caro := testutil.CreatePlayer(t, store, "caro", 900)

	f, _, err := svc.Request(ctx, ana.ID, beto.ID)
	require.NoError(t, err)

	_, err = svc.Remove(ctx, caro.ID, f.ID)
	assert.ErrorIs(t, err, ErrFriendshipMissing)

	wasPending, err := svc.Remove(ctx, beto.ID, f.ID)
	require.NoError(t, err)
	assert.True(t, wasPending)

	_, err = svc.Remove(ctx, beto.ID, f.ID)
	assert.ErrorIs(t, err, ErrFriendshipMissing)
}

func TestSearchTagsRelations(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store)
	ctx := context.Background()
	me := testutil.CreatePlayer(t, store, "martin", 900)
	friend := testutil.CreatePlayer(t, store, "marta", 900)
	asked := testutil.CreatePlayer(t, store, "mariano", 900)
	asker := testutil.CreatePlayer(t, store, "marcos", 900)
	testutil.CreatePlayer(t, store, "mario", 900)
	testutil.CreateOwner(t, store, "marcelo", nil)

	f, _, err := svc.Request(ctx, me.ID, friend.ID)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, friend.ID, f.ID)
	require.NoError(t, err)
	_, _, err = svc.Request(ctx, me.ID, asked.ID)
	require.NoError(t, err)
	_, _, err = svc.Request(ctx, asker.ID, me.ID)
	require.NoError(t, err)

	short, err := svc.Search(ctx, me.ID, "m")
	require.NoError(t, err)
	assert.Empty(t, short)

	results, err := svc.Search(ctx, me.ID, "MAR")
	require.NoError(t, err)
	got := map[string]Relation{}
	for _, r := range results {
		got[r.User.Name] = r.Relation
	}
	assert.Equal(t, map[string]Relation{
		"marta":   RelationFriend,
		"mariano": RelationSent,
		"marcos":  RelationReceived,
		"mario":   RelationNone,
	}, got)
}
