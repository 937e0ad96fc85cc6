package league

import (
	"context"
	"testing"
	"time"

	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
	"fulvo/backend/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, now time.Time) (*Service, *repository.Store, *clockwork.FakeClock, *metrics.Mock) {
	t.Helper()
	store := testutil.NewStore(t)
	clock := clockwork.NewFakeClockAt(now)
	m := metrics.NewMock()
	return NewService(store, clock, time.UTC, m, zerolog.Nop()), store, clock, m
}

func TestCurrentSeasonMissing(t *testing.T) {
	svc, _, _, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err := svc.CurrentSeason(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSeason)
}

func TestOpenSeasonAndDaysRemaining(t *testing.T) {
	ctx := context.Background()
	svc, _, clock, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	season, err := svc.OpenSeason(ctx, "Apertura", 30)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", season.StartsOn)
	assert.Equal(t, "2026-04-09", season.EndsOn)

	_, err = svc.OpenSeason(ctx, "Otra", 30)
	assert.ErrorIs(t, err, ErrSeasonOpen)

	clock.Advance(48 * time.Hour)
	view, err := svc.CurrentSeason(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28, view.DaysRemaining)
}

func TestMyLeagueWithoutSeason(t *testing.T) {
	svc, store, _, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	p := testutil.CreatePlayer(t, store, "ana", 950)

	out, err := svc.MyLeague(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeagueSilver, out.Tier.League)
	assert.Nil(t, out.Season)
	assert.Nil(t, out.Entry)
}

func TestMyLeagueCreatesAndReassignsEntry(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err := svc.OpenSeason(ctx, "Apertura", 30)
	require.NoError(t, err)

	ana := testutil.CreatePlayer(t, store, "ana", 950)
	beto := testutil.CreatePlayer(t, store, "beto", 980)
	_, err = svc.MyLeague(ctx, beto.ID)
	require.NoError(t, err)

	out, err := svc.MyLeague(ctx, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Entry)
	assert.Equal(t, models.LeagueSilver, out.Entry.League)
	assert.Equal(t, 2, out.Position)
	assert.Equal(t, 2, out.Total)

	require.NoError(t, store.Users.Updates(ctx, ana.ID, map[string]any{"ranking": 1010}))
	out, err = svc.MyLeague(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeagueGold, out.Entry.League)
	assert.Equal(t, 1, out.Position)
	assert.Equal(t, 1, out.Total)
}

func TestStandingsInvalidLeague(t *testing.T) {
	svc, _, _, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err := svc.Standings(context.Background(), "madera")
	assert.ErrorIs(t, err, ErrInvalidLeague)
}

func TestAccrueAndStandings(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	ana := testutil.CreatePlayer(t, store, "ana", 60)
	beto := testutil.CreatePlayer(t, store, "beto", 45)

	// Without a season nothing is recorded.
	require.NoError(t, svc.Accrue(ctx, store, []Award{{PlayerID: ana.ID, Points: 10, Won: true, Ranking: 60}}))

	_, err := svc.OpenSeason(ctx, "Apertura", 30)
	require.NoError(t, err)

	awards := []Award{
		{PlayerID: ana.ID, Points: 10, Won: true, Ranking: 60},
		{PlayerID: beto.ID, Points: -5, Won: false, Ranking: 45},
	}
	require.NoError(t, svc.Accrue(ctx, store, awards))
	require.NoError(t, svc.Accrue(ctx, store, awards[:1]))

	view, err := svc.Standings(ctx, models.LeagueBronze)
	require.NoError(t, err)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, ana.ID, view.Rows[0].PlayerID)
	assert.Equal(t, 20, view.Rows[0].Points)
	assert.Equal(t, 2, view.Rows[0].Matches)
	assert.Equal(t, 2, view.Rows[0].Wins)
	assert.Equal(t, 0, view.Rows[1].Points)
	assert.Equal(t, 1, view.Rows[1].Matches)

	top, err := svc.TopDiamond(ctx)
	require.NoError(t, err)
	assert.Empty(t, top.Rows)
}

func TestRollover(t *testing.T) {
	ctx := context.Background()
	svc, store, clock, m := newService(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	first, err := svc.OpenSeason(ctx, "Marzo", 30)
	require.NoError(t, err)

	gold := testutil.CreatePlayer(t, store, "gold", 1000)
	idle := testutil.CreatePlayer(t, store, "idle", 100)
	require.NoError(t, svc.Accrue(ctx, store, []Award{{PlayerID: gold.ID, Points: 10, Won: true, Ranking: 1000}}))
	_, err = svc.MyLeague(ctx, idle.ID)
	require.NoError(t, err)

	// Last day of the season: nothing happens.
	clock.Advance(30 * 24 * time.Hour)
	res, err := svc.Rollover(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)

	clock.Advance(24 * time.Hour)
	res, err = svc.Rollover(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, first.ID, res.Closed.ID)
	assert.Equal(t, 1, res.Awarded)
	assert.Equal(t, "Temporada Abril 2026", res.Opened.Name)
	assert.Equal(t, 1, m.SeasonRollovers())

	assert.Equal(t, 1030, testutil.Reload(t, store, gold.ID).Ranking)
	assert.Equal(t, 100, testutil.Reload(t, store, idle.ID).Ranking)

	current, err := svc.CurrentSeason(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Opened.ID, current.Season.ID)
}
