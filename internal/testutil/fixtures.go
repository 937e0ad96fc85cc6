package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
)

// CreatePlayer inserts a verified player with the given ranking.
func CreatePlayer(t *testing.T, store *repository.Store, name string, ranking int) *models.User {
	t.Helper()
	u := &models.User{
		Name:          name,
		Email:         fmt.Sprintf("%s@example.com", name),
		PasswordHash:  "x",
		Role:          models.RolePlayer,
		Plan:          models.PlanFree,
		EmailVerified: true,
	}
	if err := store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create player %s: %v", name, err)
	}
	// A zero ranking would be replaced by the column default on insert.
	if err := store.Users.Updates(context.Background(), u.ID, map[string]any{"ranking": ranking}); err != nil {
		t.Fatalf("set ranking for %s: %v", name, err)
	}
	u.Ranking = ranking
	return u
}

// CreateOwner inserts a verified venue owner. subscribedUntil may be nil.
func CreateOwner(t *testing.T, store *repository.Store, name string, subscribedUntil *time.Time) *models.User {
	t.Helper()
	u := &models.User{
		Name:          name,
		Email:         fmt.Sprintf("%s@example.com", name),
		PasswordHash:  "x",
		Role:          models.RoleOwner,
		EmailVerified: true,
	}
	if err := store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create owner %s: %v", name, err)
	}
	if subscribedUntil != nil {
		err := store.Users.Updates(context.Background(), u.ID, map[string]any{
			"subscription_active":     true,
			"subscription_expires_at": subscribedUntil.UTC(),
		})
		if err != nil {
			t.Fatalf("subscribe owner %s: %v", name, err)
		}
		u.SubscriptionActive = true
		exp := subscribedUntil.UTC()
		u.SubscriptionExpiresAt = &exp
	}
	return u
}

// CreateVenue inserts an active venue for owner.
func CreateVenue(t *testing.T, store *repository.Store, owner *models.User, zone string) *models.Venue {
	t.Helper()
	v := &models.Venue{
		OwnerID: owner.ID,
		Name:    "Cancha " + zone,
		Address: "Av. Siempreviva 742",
		Zone:    zone,
		Active:  true,
	}
	if err := store.Venues.Create(context.Background(), v); err != nil {
		t.Fatalf("create venue: %v", err)
	}
	return v
}

// CreateMatch inserts a pending match kicking off at kickoff.
func CreateMatch(t *testing.T, store *repository.Store, venue *models.Venue, kickoff time.Time, maxPlayers int) *models.Match {
	t.Helper()
	m := &models.Match{
		VenueID:        venue.ID,
		OrganizerID:    venue.OwnerID,
		Date:           kickoff.Format("2006-01-02"),
		StartTime:      kickoff.Format("15:04"),
		KickoffAt:      kickoff.UTC(),
		MaxPlayers:     maxPlayers,
		PricePerPlayer: 5000,
		Status:         models.MatchPending,
	}
	if err := store.Matches.Create(context.Background(), m); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return m
}

// Reload fetches the current state of a user.
func Reload(t *testing.T, store *repository.Store, id uint) *models.User {
	t.Helper()
	u, err := store.Users.ByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}

// Enroll adds player to the roster of m and takes a slot.
func Enroll(t *testing.T, store *repository.Store, m *models.Match, player *models.User) *models.MatchPlayer {
	t.Helper()
	ok, err := store.Matches.ReserveSlot(context.Background(), m.ID)
	if err != nil || !ok {
		t.Fatalf("reserve slot in match %d: ok=%v err=%v", m.ID, ok, err)
	}
	mp := &models.MatchPlayer{MatchID: m.ID, PlayerID: player.ID}
	if err := store.Matches.AddPlayer(context.Background(), mp); err != nil {
		t.Fatalf("enroll player %d: %v", player.ID, err)
	}
	m.Enrolled++
	return mp
}
