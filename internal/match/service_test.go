package match

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/hub"
	"fulvo/backend/internal/league"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
	"fulvo/backend/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var argentina = time.FixedZone("ART", -3*60*60)

type recorder struct {
	mu     sync.Mutex
	events []hub.Event
}

func (r *recorder) Broadcast(_ uint, e hub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc     *Service
	store   *repository.Store
	clock   *clockwork.FakeClock
	metrics *metrics.Mock
	events  *recorder
	leagues *league.Service
	owner   *models.User
	venue   *models.Venue
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC))
	m := metrics.NewMock()
	rec := &recorder{}
	leagues := league.NewService(store, clock, argentina, m, zerolog.Nop())

	until := clock.Now().Add(30 * 24 * time.Hour)
	owner := testutil.CreateOwner(t, store, "owner", &until)
	venue := testutil.CreateVenue(t, store, owner, "Palermo")

	svc := NewService(Deps{
		Store:    store,
		Seasons:  leagues,
		Clock:    clock,
		Location: argentina,
		Rules:    DefaultRules(),
		Events:   rec,
		Metrics:  m,
		Log:      zerolog.Nop(),
	})
	return &fixture{svc: svc, store: store, clock: clock, metrics: m, events: rec, leagues: leagues, owner: owner, venue: venue}
}

func (f *fixture) match(t *testing.T, in time.Duration, maxPlayers int) *models.Match {
	t.Helper()
	return testutil.CreateMatch(t, f.store, f.venue, f.clock.Now().Add(in), maxPlayers)
}

func (f *fixture) premium(t *testing.T, name string, ranking int) *models.User {
	t.Helper()
	u := testutil.CreatePlayer(t, f.store, name, ranking)
	require.NoError(t, f.store.Users.Updates(context.Background(), u.ID, map[string]any{
		"plan":                    models.PlanPremium,
		"subscription_expires_at": f.clock.Now().Add(30 * 24 * time.Hour),
	}))
	return u
}

func (f *fixture) roster(t *testing.T, matchID uint) []models.MatchPlayer {
	t.Helper()
	rows, err := f.store.Matches.Roster(context.Background(), matchID)
	require.NoError(t, err)
	return rows
}

func TestJoinRejectsFreePlayerOverQuota(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := testutil.CreatePlayer(t, f.store, "free", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{"monthly_joins": 2, "quota_month": 202605}))

	_, err := f.svc.Join(ctx, m.ID, p.ID)

	require.Error(t, err)
	assert.Equal(t, "Alcanzaste el límite de 2 partidos gratis. Pasate a premium.", apperr.As(err).Message)
	assert.Equal(t, 403, apperr.Status(err))
	assert.Empty(t, f.roster(t, m.ID))
	assert.Equal(t, 1, f.metrics.JoinRejected("quota"))
}

func TestJoinResetsQuotaOnNewMonth(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := testutil.CreatePlayer(t, f.store, "free", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{"monthly_joins": 2, "quota_month": 202604}))

	res, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)
	require.NotNil(t, res.FreeJoinsLeft)
	assert.Equal(t, 1, *res.FreeJoinsLeft)
	assert.Equal(t, 1, res.Enrolled)

	u := testutil.Reload(t, f.store, p.ID)
	assert.Equal(t, 1, u.MonthlyJoins)
	assert.Equal(t, 202605, u.QuotaMonth)
	assert.Equal(t, []string{hub.EventPlayerJoined}, f.events.types())
	assert.Equal(t, 1, f.metrics.Joins())
}

func TestJoinUsesVenueTimezoneForQuotaMonth(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	// 02:00 UTC on June 1st is still May 31st in Argentina.
	f.clock.Advance(time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC).Sub(f.clock.Now()))
	m := f.match(t, 48*time.Hour, 14)
	p := testutil.CreatePlayer(t, f.store, "free", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{"monthly_joins": 2, "quota_month": 202605}))

	_, err := f.svc.Join(ctx, m.ID, p.ID)
	assert.True(t, isQuotaError(err))
}

func TestJoinPremiumIgnoresQuota(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "vip", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{"monthly_joins": 7, "quota_month": 202605}))

	res, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)
	assert.Nil(t, res.FreeJoinsLeft)
	assert.Equal(t, 7, testutil.Reload(t, f.store, p.ID).MonthlyJoins)
}

func TestJoinExpiredPremiumCountsAsFree(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := testutil.CreatePlayer(t, f.store, "lapsed", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{
		"plan":                    models.PlanPremium,
		"subscription_expires_at": f.clock.Now().Add(-time.Hour),
		"monthly_joins":           2,
		"quota_month":             202605,
	}))

	_, err := f.svc.Join(ctx, m.ID, p.ID)
	assert.True(t, isQuotaError(err))
}

func TestJoinBlockedAccount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "blocked", 50)
	require.NoError(t, f.store.Users.Updates(ctx, p.ID, map[string]any{"blocked": true}))

	_, err := f.svc.Join(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestJoinUnknownMatch(t *testing.T) {
	f := setup(t)
	p := f.premium(t, "p", 50)
	_, err := f.svc.Join(context.Background(), 999, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinStartedMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	p := f.premium(t, "p", 50)
	m := f.match(t, -10*time.Minute, 14)

	_, err := f.svc.Join(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrMatchStarted)
	assert.Empty(t, f.roster(t, m.ID))
	stored, err := f.store.Matches.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Enrolled)

	kickoffNow := f.match(t, 0, 14)
	_, err = f.svc.Join(ctx, kickoffNow.ID, p.ID)
	assert.ErrorIs(t, err, ErrMatchStarted)
}

func TestJoinFullMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 2)
	a, b, c := f.premium(t, "a", 50), f.premium(t, "b", 50), f.premium(t, "c", 50)

	_, err := f.svc.Join(ctx, m.ID, a.ID)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, m.ID, b.ID)
	require.NoError(t, err)

	_, err = f.svc.Join(ctx, m.ID, c.ID)
	assert.ErrorIs(t, err, ErrMatchFull)
	// Already enrolled players also see the match as full.
	_, err = f.svc.Join(ctx, m.ID, a.ID)
	assert.ErrorIs(t, err, ErrMatchFull)

	assert.Len(t, f.roster(t, m.ID), 2)
	stored, err := f.store.Matches.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Enrolled)
}

func TestJoinTwiceLeavesOneRow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := testutil.CreatePlayer(t, f.store, "twice", 50)

	_, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	assert.Len(t, f.roster(t, m.ID), 1)
	stored, err := f.store.Matches.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Enrolled)
	// The rejected attempt does not consume quota.
	assert.Equal(t, 1, testutil.Reload(t, f.store, p.ID).MonthlyJoins)
	assert.Equal(t, 1, f.metrics.JoinRejected("duplicate"))
}

func TestConcurrentJoinsNeverOverfill(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 4)

	players := make([]*models.User, 10)
	for i := range players {
		players[i] = f.premium(t, "p"+string(rune('a'+i)), 50)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for _, p := range players {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			if _, err := f.svc.Join(ctx, m.ID, id); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(p.ID)
	}
	wg.Wait()

	assert.Equal(t, 4, ok)
	assert.Len(t, f.roster(t, m.ID), 4)
}

func TestLeaveLatePenalty(t *testing.T) {
	tests := []struct {
		name      string
		until     time.Duration
		ranking   int
		penalized bool
		want      int
	}{
		{"inside window", 2*time.Hour + 59*time.Minute, 100, true, 85},
		{"outside window", 3*time.Hour + time.Minute, 100, false, 100},
		{"floored at zero", 2*time.Hour + 59*time.Minute, 10, true, 0},
		{"already started", -10 * time.Minute, 100, false, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := setup(t)
			p := f.premium(t, "leaver", tt.ranking)
			m := f.match(t, tt.until, 14)
			if tt.until > 0 {
				_, err := f.svc.Join(ctx, m.ID, p.ID)
				require.NoError(t, err)
			} else {
				testutil.Enroll(t, f.store, m, p)
			}

			res, err := f.svc.Leave(ctx, m.ID, p.ID)
			require.NoError(t, err)

			assert.Equal(t, tt.penalized, res.Penalized)
			if tt.penalized {
				assert.Equal(t, 15, res.PointsDeducted)
			} else {
				assert.Zero(t, res.PointsDeducted)
			}
			assert.Equal(t, tt.want, testutil.Reload(t, f.store, p.ID).Ranking)
			assert.Empty(t, f.roster(t, m.ID))
			assert.Equal(t, 1, f.metrics.Leaves(tt.penalized))
		})
	}
}

func TestLeaveResetsTeams(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	var ids []uint
	for i, r := range []int{80, 70, 60, 50} {
		p := f.premium(t, "p"+string(rune('a'+i)), r)
		ids = append(ids, p.ID)
		_, err := f.svc.Join(ctx, m.ID, p.ID)
		require.NoError(t, err)
	}
	_, err := f.svc.AssignTeams(ctx, m.ID, f.owner.ID)
	require.NoError(t, err)

	res, err := f.svc.Leave(ctx, m.ID, ids[0])
	require.NoError(t, err)
	assert.True(t, res.TeamsReset)

	rows := f.roster(t, m.ID)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Nil(t, r.Team)
	}
	stored, err := f.store.Matches.ByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Enrolled)
}

func TestLeaveErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "p", 50)

	_, err := f.svc.Leave(ctx, 999, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Leave(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotJoined)

	_, err = f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)
	_, err = f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 1, 0)
	require.NoError(t, err)

	_, err = f.svc.Leave(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyPlayed)
}

func TestAssignTeamsPersistsSnakeDraft(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	byRanking := map[int]uint{}
	for i, r := range []int{60, 100, 50, 80, 90, 70} {
		p := f.premium(t, "p"+string(rune('a'+i)), r)
		byRanking[r] = p.ID
		_, err := f.svc.Join(ctx, m.ID, p.ID)
		require.NoError(t, err)
	}

	d, err := f.svc.AssignTeams(ctx, m.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 70, 60}, rankings(d.Local))
	assert.Equal(t, []int{90, 80, 50}, rankings(d.Visitor))
	assert.Equal(t, 3.33, d.Spread)

	teams := map[uint]models.Team{}
	for _, r := range f.roster(t, m.ID) {
		require.NotNil(t, r.Team)
		teams[r.PlayerID] = *r.Team
	}
	for _, r := range []int{100, 70, 60} {
		assert.Equal(t, models.TeamLocal, teams[byRanking[r]])
	}
	for _, r := range []int{90, 80, 50} {
		assert.Equal(t, models.TeamVisitor, teams[byRanking[r]])
	}
	assert.Equal(t, 1, f.metrics.TeamAssignments())
}

func TestAssignTeamsErrors(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "solo", 50)
	_, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)

	_, err = f.svc.AssignTeams(ctx, m.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotOrganizer)

	_, err = f.svc.AssignTeams(ctx, m.ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	_, err = f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 0, 0)
	require.NoError(t, err)
	_, err = f.svc.AssignTeams(ctx, m.ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrTeamsLocked)
}

func (f *fixture) drafted(t *testing.T, ranks ...int) (*models.Match, map[models.Team][]uint) {
	t.Helper()
	ctx := context.Background()
	m := f.match(t, 48*time.Hour, 14)
	for i, r := range ranks {
		p := f.premium(t, fmt.Sprintf("m%d_p%d", m.ID, i), r)
		_, err := f.svc.Join(ctx, m.ID, p.ID)
		require.NoError(t, err)
	}
	_, err := f.svc.AssignTeams(ctx, m.ID, f.owner.ID)
	require.NoError(t, err)

	sides := map[models.Team][]uint{}
	for _, r := range f.roster(t, m.ID) {
		sides[*r.Team] = append(sides[*r.Team], r.PlayerID)
	}
	return m, sides
}

func TestSubmitResultWin(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	// Local: 100 and 3; visitante: 90 and 40.
	m, sides := f.drafted(t, 100, 90, 40, 3)

	out, err := f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 3, 1)
	require.NoError(t, err)
	assert.True(t, out.StatsUpdated)
	require.NotNil(t, out.Winner)
	assert.Equal(t, models.TeamLocal, *out.Winner)
	assert.Equal(t, models.MatchPlayed, out.Match.Status)
	assert.Equal(t, 3, *out.Match.HomeScore)
	assert.Equal(t, 1, *out.Match.AwayScore)

	var localRanks, visitorRanks []int
	for _, id := range sides[models.TeamLocal] {
		u := testutil.Reload(t, f.store, id)
		assert.Equal(t, 1, u.MatchesPlayed)
		assert.Equal(t, 1, u.MatchesWon)
		localRanks = append(localRanks, u.Ranking)
	}
	for _, id := range sides[models.TeamVisitor] {
		u := testutil.Reload(t, f.store, id)
		assert.Equal(t, 1, u.MatchesPlayed)
		assert.Equal(t, 0, u.MatchesWon)
		visitorRanks = append(visitorRanks, u.Ranking)
	}
	assert.ElementsMatch(t, []int{110, 13}, localRanks)
	assert.ElementsMatch(t, []int{85, 35}, visitorRanks)
	assert.Equal(t, 1, f.metrics.Results(true))
}

func TestSubmitResultLossFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m, sides := f.drafted(t, 100, 3)

	_, err := f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 95, testutil.Reload(t, f.store, sides[models.TeamLocal][0]).Ranking)
	assert.Equal(t, 13, testutil.Reload(t, f.store, sides[models.TeamVisitor][0]).Ranking)

	m2, sides2 := f.drafted(t, 200, 4)
	_, err = f.svc.SubmitResult(ctx, m2.ID, f.owner.ID, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, testutil.Reload(t, f.store, sides2[models.TeamVisitor][0]).Ranking)
}

func TestSubmitResultDraw(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m, sides := f.drafted(t, 60, 50)

	out, err := f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 2, 2)
	require.NoError(t, err)
	assert.Nil(t, out.Winner)
	assert.True(t, out.StatsUpdated)

	assert.Equal(t, 63, testutil.Reload(t, f.store, sides[models.TeamLocal][0]).Ranking)
	u := testutil.Reload(t, f.store, sides[models.TeamVisitor][0])
	assert.Equal(t, 53, u.Ranking)
	assert.Equal(t, 1, u.MatchesPlayed)
	assert.Equal(t, 0, u.MatchesWon)
}

func TestSubmitResultWithoutTeams(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "p", 70)
	_, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)

	out, err := f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 4, 1)
	require.NoError(t, err)
	assert.False(t, out.StatsUpdated)
	assert.Equal(t, models.MatchPlayed, out.Match.Status)

	u := testutil.Reload(t, f.store, p.ID)
	assert.Equal(t, 70, u.Ranking)
	assert.Equal(t, 0, u.MatchesPlayed)
	assert.Equal(t, 1, f.metrics.Results(false))
}

func TestSubmitResultGuards(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m, _ := f.drafted(t, 60, 50)

	_, err := f.svc.SubmitResult(ctx, m.ID, f.owner.ID, -1, 0)
	assert.ErrorIs(t, err, ErrInvalidScore)

	other := testutil.CreateOwner(t, f.store, "other", nil)
	_, err = f.svc.SubmitResult(ctx, m.ID, other.ID, 1, 0)
	assert.ErrorIs(t, err, ErrNotOrganizer)

	_, err = f.svc.SubmitResult(ctx, 999, f.owner.ID, 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 1, 0)
	require.NoError(t, err)
	_, err = f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 2, 0)
	assert.ErrorIs(t, err, ErrResultRecorded)
}

func TestSubmitResultAccruesSeasonPoints(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.leagues.OpenSeason(ctx, "Mayo", 30)
	require.NoError(t, err)
	m, sides := f.drafted(t, 895, 50)

	_, err = f.svc.SubmitResult(ctx, m.ID, f.owner.ID, 1, 0)
	require.NoError(t, err)

	season, err := f.store.Seasons.Active(ctx)
	require.NoError(t, err)

	winner, err := f.store.Seasons.Entry(ctx, season.ID, sides[models.TeamLocal][0])
	require.NoError(t, err)
	assert.Equal(t, 10, winner.Points)
	assert.Equal(t, 1, winner.Wins)
	// 895 + 10 crosses into plata.
	assert.Equal(t, models.LeagueSilver, winner.League)

	loser, err := f.store.Seasons.Entry(ctx, season.ID, sides[models.TeamVisitor][0])
	require.NoError(t, err)
	assert.Equal(t, 0, loser.Points)
	assert.Equal(t, 1, loser.Matches)
}

func TestCreateMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	m, err := f.svc.Create(ctx, f.owner.ID, CreateInput{
		VenueID:        f.venue.ID,
		Date:           "2026-05-20",
		StartTime:      "20:00",
		EndTime:        "21:00",
		PricePerPlayer: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, 14, m.MaxPlayers)
	assert.Equal(t, time.Date(2026, 5, 20, 23, 0, 0, 0, time.UTC), m.KickoffAt.UTC())
	assert.Equal(t, models.MatchPending, m.Status)
	assert.Equal(t, f.venue.ID, m.Venue.ID)
	assert.Equal(t, "Cancha Palermo", m.Venue.Name)
	assert.Equal(t, "Palermo", m.Venue.Zone)
}

func TestCreateMatchGuards(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	in := CreateInput{VenueID: f.venue.ID, Date: "2026-05-20", StartTime: "20:00"}

	lapsed := testutil.CreateOwner(t, f.store, "lapsed", nil)
	_, err := f.svc.Create(ctx, lapsed.ID, in)
	assert.ErrorIs(t, err, ErrSubscription)

	until := f.clock.Now().Add(time.Hour)
	rival := testutil.CreateOwner(t, f.store, "rival", &until)
	_, err = f.svc.Create(ctx, rival.ID, in)
	assert.ErrorIs(t, err, ErrVenueNotOwned)

	f.clock.Advance(31 * 24 * time.Hour)
	_, err = f.svc.Create(ctx, f.owner.ID, in)
	assert.ErrorIs(t, err, ErrSubscription)
}

func TestCreateMatchValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	one := 1

	_, err := f.svc.Create(ctx, f.owner.ID, CreateInput{VenueID: f.venue.ID, Date: "20-05-2026", StartTime: "20:00"})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = f.svc.Create(ctx, f.owner.ID, CreateInput{VenueID: f.venue.ID, Date: "2026-05-01", StartTime: "20:00"})
	assert.ErrorIs(t, err, ErrMatchPast)

	_, err = f.svc.Create(ctx, f.owner.ID, CreateInput{VenueID: f.venue.ID, Date: "2026-05-20", StartTime: "20:00", MaxPlayers: &one})
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestDeleteAndConfirmPayment(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	m := f.match(t, 48*time.Hour, 14)
	p := f.premium(t, "payer", 50)
	_, err := f.svc.Join(ctx, m.ID, p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ConfirmPayment(ctx, m.ID, p.ID, p.ID, true), ErrNotOrganizer)
	assert.ErrorIs(t, f.svc.ConfirmPayment(ctx, m.ID, f.owner.ID, 999, true), ErrNotPlayerEntry)
	require.NoError(t, f.svc.ConfirmPayment(ctx, m.ID, f.owner.ID, p.ID, true))
	assert.True(t, f.roster(t, m.ID)[0].PaymentConfirmed)

	assert.ErrorIs(t, f.svc.Delete(ctx, m.ID, p.ID), ErrNotFound)
	require.NoError(t, f.svc.Delete(ctx, m.ID, f.owner.ID))
	_, err = f.svc.Detail(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.roster(t, m.ID))
}

func TestListUpcomingFilters(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.match(t, -2*time.Hour, 14)
	soon := f.match(t, 24*time.Hour, 14)

	other := testutil.CreateVenue(t, f.store, f.owner, "Caballito")
	testutil.CreateMatch(t, f.store, other, f.clock.Now().Add(72*time.Hour), 10)

	all, err := f.svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, soon.ID, all[0].ID)
	assert.Equal(t, "Palermo", all[0].Venue.Zone)

	byZone, err := f.svc.List(ctx, "", "caball")
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	assert.Equal(t, "Caballito", byZone[0].Venue.Zone)

	byDate, err := f.svc.List(ctx, soon.Date, "")
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, soon.ID, byDate[0].ID)
}
