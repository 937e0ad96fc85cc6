package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
	"fulvo/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeFreeJoin(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	p := testutil.CreatePlayer(t, store, "ana", 50)

	for i := 0; i < 2; i++ {
		ok, err := store.Users.ConsumeFreeJoin(ctx, p.ID, 202610, 2)
		require.NoError(t, err)
		assert.True(t, ok, "join %d", i+1)
	}
	ok, err := store.Users.ConsumeFreeJoin(ctx, p.ID, 202610, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// A new month resets the counter.
	ok, err = store.Users.ConsumeFreeJoin(ctx, p.ID, 202611, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	u := testutil.Reload(t, store, p.ID)
	assert.Equal(t, 1, u.MonthlyJoins)
	assert.Equal(t, 202611, u.QuotaMonth)
}

func TestReserveSlotStopsAtCapacity(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	owner := testutil.CreateOwner(t, store, "carlos", nil)
	venue := testutil.CreateVenue(t, store, owner, "Palermo")
	m := testutil.CreateMatch(t, store, venue, time.Now().Add(48*time.Hour), 2)

	for i := 0; i < 2; i++ {
		ok, err := store.Matches.ReserveSlot(ctx, m.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := store.Matches.ReserveSlot(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpcomingFilters(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	owner := testutil.CreateOwner(t, store, "carlos", nil)
	palermo := testutil.CreateVenue(t, store, owner, "Palermo")
	belgrano := testutil.CreateVenue(t, store, owner, "Belgrano")

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	testutil.CreateMatch(t, store, palermo, now.Add(-2*time.Hour), 10)
	a := testutil.CreateMatch(t, store, palermo, now.Add(24*time.Hour), 10)
	b := testutil.CreateMatch(t, store, belgrano, now.Add(48*time.Hour), 10)

	all, err := store.Matches.Upcoming(ctx, repository.MatchFilter{From: now})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, "Palermo", all[0].Venue.Zone)

	byZone, err := store.Matches.Upcoming(ctx, repository.MatchFilter{From: now, Zone: "belg"})
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	assert.Equal(t, b.ID, byZone[0].ID)

	byDate, err := store.Matches.Upcoming(ctx, repository.MatchFilter{From: now, Date: a.Date})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, a.ID, byDate[0].ID)
}

func TestZonesAreDistinctAndSorted(t *testing.T) {
	store := testutil.NewStore(t)
	owner := testutil.CreateOwner(t, store, "carlos", nil)
	testutil.CreateVenue(t, store, owner, "Palermo")
	testutil.CreateVenue(t, store, owner, "Belgrano")
	testutil.CreateVenue(t, store, owner, "Palermo")

	zones, err := store.Venues.Zones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Belgrano", "Palermo"}, zones)
}

func TestRankPositionAndSearch(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	ana := testutil.CreatePlayer(t, store, "ana", 80)
	testutil.CreatePlayer(t, store, "anabel", 60)
	testutil.CreatePlayer(t, store, "beto", 70)
	testutil.CreateOwner(t, store, "analia", nil)

	pos, err := store.Users.RankPosition(ctx, 70)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	found, err := store.Users.SearchPlayers(ctx, "ANA", ana.ID, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "anabel", found[0].Name)

	none, err := store.Users.SearchPlayers(ctx, "%", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFriendshipBetweenIsSymmetric(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	ana := testutil.CreatePlayer(t, store, "ana", 50)
	beto := testutil.CreatePlayer(t, store, "beto", 50)

	_, err := store.Friendships.Between(ctx, ana.ID, beto.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	f := &models.Friendship{RequesterID: ana.ID, AddresseeID: beto.ID, Status: models.StatusPending}
	require.NoError(t, store.Friendships.Create(ctx, f))

	got, err := store.Friendships.Between(ctx, beto.ID, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	// Only the addressee can accept.
	assert.Error(t, store.Friendships.Accept(ctx, f.ID, ana.ID))
	require.NoError(t, store.Friendships.Accept(ctx, f.ID, beto.ID))
	accepted, err := store.Friendships.Accepted(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
}

func TestExpireSubscriptions(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	expired := testutil.CreateOwner(t, store, "vencido", &past)
	current := testutil.CreateOwner(t, store, "vigente", &future)

	n, err := store.Users.ExpireSubscriptions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, testutil.Reload(t, store, expired.ID).SubscriptionActive)
	assert.True(t, testutil.Reload(t, store, current.ID).SubscriptionActive)
}

func TestWaitlistDuplicate(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	require.NoError(t, store.Waitlist.Add(ctx, &models.WaitlistEntry{Email: "a@example.com", Source: "landing"}))
	err := store.Waitlist.Add(ctx, &models.WaitlistEntry{Email: "a@example.com", Source: "landing"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	n, err := store.Waitlist.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
