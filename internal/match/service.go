package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulvo/backend/internal/hub"
	"fulvo/backend/internal/league"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// SeasonAccruer credits season points inside the result transaction.
type SeasonAccruer interface {
	Accrue(ctx context.Context, tx *repository.Store, awards []league.Award) error
}

// Service runs the match lifecycle.
type Service struct {
	store   *repository.Store
	seasons SeasonAccruer
	clock   clockwork.Clock
	loc     *time.Location
	rules   Rules
	events  hub.Publisher
	metrics metrics.Metrics
	log     zerolog.Logger
}

// Deps groups the collaborators of Service.
type Deps struct {
	Store    *repository.Store
	Seasons  SeasonAccruer
	Clock    clockwork.Clock
	Location *time.Location
	Rules    Rules
	Events   hub.Publisher
	Metrics  metrics.Metrics
	Log      zerolog.Logger
}

func NewService(d Deps) *Service {
	if d.Events == nil {
		d.Events = hub.Discard{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return &Service{
		store:   d.Store,
		seasons: d.Seasons,
		clock:   d.Clock,
		loc:     d.Location,
		rules:   d.Rules,
		events:  d.Events,
		metrics: d.Metrics,
		log:     d.Log,
	}
}

// Rules returns the constants the service enforces.
func (s *Service) Rules() Rules { return s.rules }

// Now is the service clock in the venue timezone.
func (s *Service) Now() time.Time { return s.clock.Now().In(s.loc) }

// CreateInput describes a new match.
type CreateInput struct {
	VenueID        uint
	Date           string
	StartTime      string
	EndTime        string
	MaxPlayers     *int
	PricePerPlayer int
	Description    *string
}

// JoinResult reports the roster size after a join.
type JoinResult struct {
	Enrolled   int
	MaxPlayers int
	// FreeJoinsLeft is nil for premium players.
	FreeJoinsLeft *int
}

// LeaveResult reports the side effects of leaving a match.
type LeaveResult struct {
	Penalized      bool
	PointsDeducted int
	TeamsReset     bool
}

// ResultOutcome reports a recorded score.
type ResultOutcome struct {
	Match        *models.Match
	StatsUpdated bool
	// Winner is nil on a draw.
	Winner *models.Team
}

// List returns upcoming matches.
func (s *Service) List(ctx context.Context, date, zone string) ([]models.Match, error) {
	return s.store.Matches.Upcoming(ctx, repository.MatchFilter{
		From: s.clock.Now().UTC(),
		Date: date,
		Zone: zone,
	})
}

// Mine returns the matches organized by ownerID.
func (s *Service) Mine(ctx context.Context, ownerID uint) ([]models.Match, error) {
	return s.store.Matches.ByOrganizer(ctx, ownerID)
}

// Detail loads a match with venue, organizer and roster.
func (s *Service) Detail(ctx context.Context, id uint) (*models.Match, error) {
	m, err := s.store.Matches.Detail(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return m, err
}

// Kickoff combines a YYYY-MM-DD date and HH:MM time in the venue timezone.
func (s *Service) Kickoff(date, start string) (time.Time, error) {
	start = normalizeClock(start)
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+start, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidSchedule
	}
	return t.UTC(), nil
}

func normalizeClock(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == len("15:04:05") {
		return v[:5]
	}
	return v
}

// Create opens a new match at a venue the organizer owns.
func (s *Service) Create(ctx context.Context, organizerID uint, in CreateInput) (*models.Match, error) {
	owner, err := s.store.Users.ByID(ctx, organizerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubscription
	}
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if !owner.OwnerSubscriptionCurrent(now) {
		return nil, ErrSubscription
	}

	venue, err := s.store.Venues.OwnedBy(ctx, in.VenueID, organizerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrVenueNotOwned
	}
	if err != nil {
		return nil, err
	}

	kickoff, err := s.Kickoff(in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if kickoff.Before(now) {
		return nil, ErrMatchPast
	}
	end := normalizeClock(in.EndTime)
	if end != "" {
		if _, err := time.Parse("15:04", end); err != nil {
			return nil, ErrInvalidSchedule
		}
	}

	maxPlayers := s.rules.DefaultMaxPlayers
	if in.MaxPlayers != nil {
		maxPlayers = *in.MaxPlayers
	}
	if maxPlayers < s.rules.MinPlayers {
		return nil, ErrCapacity
	}

	m := &models.Match{
		VenueID:        venue.ID,
		OrganizerID:    organizerID,
		Date:           in.Date,
		StartTime:      normalizeClock(in.StartTime),
		EndTime:        end,
		KickoffAt:      kickoff,
		MaxPlayers:     maxPlayers,
		PricePerPlayer: in.PricePerPlayer,
		Description:    in.Description,
		Status:         models.MatchPending,
	}
	if err := s.store.Matches.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Venue = *venue
	s.log.Info().Uint("match_id", m.ID).Uint("venue_id", venue.ID).Time("kickoff", kickoff).Msg("match created")
	return m, nil
}

// Delete cancels a match organized by organizerID.
func (s *Service) Delete(ctx context.Context, id, organizerID uint) error {
	err := s.store.Matches.Delete(ctx, id, organizerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.events.Broadcast(id, hub.Event{Type: hub.EventCancelled, Payload: map[string]uint{"partido_id": id}})
	return nil
}

// Join enrolls a player. Capacity and the free monthly quota are enforced with
// conditional updates inside one transaction, so concurrent joins cannot
// overfill a match or exceed the quota.
func (s *Service) Join(ctx context.Context, matchID, playerID uint) (*JoinResult, error) {
	now := s.Now()
	month := quotaMonth(now)
	limit := s.rules.FreeMonthlyJoins

	var (
		result = &JoinResult{}
		player *models.User
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		player, err = tx.Users.ByID(ctx, playerID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlayerNotFound
		}
		if err != nil {
			return err
		}
		if player.Blocked {
			return ErrAccountBlocked
		}

		free := player.EffectivePlan(now) == models.PlanFree
		if free {
			used := player.MonthlyJoins
			if player.QuotaMonth != month {
				used = 0
			}
			if used >= limit {
				return QuotaExceeded(limit)
			}
		}

		m, err := tx.Matches.ByID(ctx, matchID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if m.Status == models.MatchPlayed {
			return ErrMatchClosed
		}
		if !m.KickoffAt.After(now) {
			return ErrMatchStarted
		}

		reserved, err := tx.Matches.ReserveSlot(ctx, matchID)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrMatchFull
		}

		if _, err := tx.Matches.Entry(ctx, matchID, playerID); err == nil {
			return ErrAlreadyJoined
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		err = tx.Matches.AddPlayer(ctx, &models.MatchPlayer{MatchID: matchID, PlayerID: playerID})
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyJoined
		}
		if err != nil {
			return err
		}

		if free {
			ok, err := tx.Users.ConsumeFreeJoin(ctx, playerID, month, limit)
			if err != nil {
				return err
			}
			if !ok {
				return QuotaExceeded(limit)
			}
			u, err := tx.Users.ByID(ctx, playerID)
			if err != nil {
				return err
			}
			left := limit - u.MonthlyJoins
			result.FreeJoinsLeft = &left
		}

		result.Enrolled = m.Enrolled + 1
		result.MaxPlayers = m.MaxPlayers
		return nil
	})
	if err != nil {
		s.metrics.IncJoinRejected(rejectReason(err))
		return nil, err
	}

	s.metrics.IncJoins()
	s.events.Broadcast(matchID, hub.Event{Type: hub.EventPlayerJoined, Payload: map[string]any{
		"jugador_id":         playerID,
		"nombre":             player.Name,
		"jugadores_anotados": result.Enrolled,
	}})
	return result, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMatchFull):
		return "full"
	case errors.Is(err, ErrAlreadyJoined):
		return "duplicate"
	case errors.Is(err, ErrAccountBlocked):
		return "blocked"
	case isQuotaError(err):
		return "quota"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPlayerNotFound):
		return "not_found"
	case errors.Is(err, ErrMatchClosed), errors.Is(err, ErrMatchStarted):
		return "closed"
	default:
		return "error"
	}
}

// Leave removes a player from a match. Leaving within the leave window
// before kickoff costs ranking points; any drafted teams are cleared.
func (s *Service) Leave(ctx context.Context, matchID, playerID uint) (*LeaveResult, error) {
	now := s.clock.Now()
	result := &LeaveResult{}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		m, err := tx.Matches.ByID(ctx, matchID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if m.Status == models.MatchPlayed {
			return ErrAlreadyPlayed
		}
		if _, err := tx.Matches.Entry(ctx, matchID, playerID); errors.Is(err, repository.ErrNotFound) {
			return ErrNotJoined
		} else if err != nil {
			return err
		}

		untilKickoff := m.KickoffAt.Sub(now)
		if untilKickoff > 0 && untilKickoff < s.rules.LeaveWindow {
			if err := tx.Users.AdjustRanking(ctx, []uint{playerID}, -s.rules.LeavePenalty); err != nil {
				return fmt.Errorf("apply leave penalty: %w", err)
			}
			result.Penalized = true
			result.PointsDeducted = s.rules.LeavePenalty
		}

		if err := tx.Matches.RemovePlayer(ctx, matchID, playerID); err != nil {
			return err
		}
		if err := tx.Matches.ReleaseSlot(ctx, matchID); err != nil {
			return err
		}

		teamed, err := tx.Matches.HasTeams(ctx, matchID)
		if err != nil {
			return err
		}
		if teamed {
			if err := tx.Matches.ClearTeams(ctx, matchID); err != nil {
				return err
			}
			result.TeamsReset = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncLeaves(result.Penalized)
	if result.Penalized {
		s.log.Info().Uint("match_id", matchID).Uint("player_id", playerID).Int("points", result.PointsDeducted).Msg("late leave penalized")
	}
	s.events.Broadcast(matchID, hub.Event{Type: hub.EventPlayerLeft, Payload: map[string]any{
		"jugador_id":         playerID,
		"equipos_reseteados": result.TeamsReset,
	}})
	return result, nil
}

// AssignTeams runs a snake draft over the roster and stores each side.
func (s *Service) AssignTeams(ctx context.Context, matchID, organizerID uint) (*Draft, error) {
	var draft Draft
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		m, err := tx.Matches.ByID(ctx, matchID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if m.OrganizerID != organizerID {
			return ErrNotOrganizer
		}
		if m.Status == models.MatchPlayed {
			return ErrTeamsLocked
		}

		roster, err := tx.Matches.Roster(ctx, matchID)
		if err != nil {
			return err
		}
		if len(roster) < s.rules.MinPlayers {
			return ErrTooFewPlayers
		}

		picks := make([]Pick, 0, len(roster))
		for i, entry := range roster {
			picks = append(picks, Pick{
				EntryID:  entry.ID,
				PlayerID: entry.PlayerID,
				Name:     entry.Player.Name,
				Position: entry.Player.Position,
				Ranking:  entry.Player.Ranking,
				Order:    i,
			})
		}
		draft = SnakeDraft(picks)

		if err := tx.Matches.SetTeam(ctx, entryIDs(draft.Local), models.TeamLocal); err != nil {
			return err
		}
		return tx.Matches.SetTeam(ctx, entryIDs(draft.Visitor), models.TeamVisitor)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTeamAssignments()
	s.events.Broadcast(matchID, hub.Event{Type: hub.EventTeamsAssigned, Payload: map[string]any{
		"local":      playerIDs(draft.Local),
		"visitante":  playerIDs(draft.Visitor),
		"diferencia": draft.Spread,
	}})
	return &draft, nil
}

func entryIDs(ps []Pick) []uint {
	ids := make([]uint, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.EntryID)
	}
	return ids
}

func playerIDs(ps []Pick) []uint {
	ids := make([]uint, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.PlayerID)
	}
	return ids
}

// SubmitResult stores the final score. When teams were drafted it updates
// every participant's all-time stats and season points in the same
// transaction; otherwise only the score is stored.
func (s *Service) SubmitResult(ctx context.Context, matchID, organizerID uint, home, away int) (*ResultOutcome, error) {
	if home < 0 || away < 0 {
		return nil, ErrInvalidScore
	}

	outcome := &ResultOutcome{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		m, err := tx.Matches.ByID(ctx, matchID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if m.OrganizerID != organizerID {
			return ErrNotOrganizer
		}
		if m.Status == models.MatchPlayed {
			return ErrResultRecorded
		}

		roster, err := tx.Matches.Roster(ctx, matchID)
		if err != nil {
			return err
		}
		if err := tx.Matches.RecordResult(ctx, matchID, home, away); err != nil {
			return err
		}

		if home != away {
			winner := models.TeamLocal
			if away > home {
				winner = models.TeamVisitor
			}
			outcome.Winner = &winner
		}

		if hasTeams(roster) {
			if err := s.applyResult(ctx, tx, roster, outcome.Winner); err != nil {
				return err
			}
			outcome.StatsUpdated = true
		}

		outcome.Match, err = tx.Matches.Detail(ctx, matchID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncResults(outcome.StatsUpdated)
	s.events.Broadcast(matchID, hub.Event{Type: hub.EventResult, Payload: map[string]any{
		"resultado_local":     home,
		"resultado_visitante": away,
		"statsActualizadas":   outcome.StatsUpdated,
	}})
	return outcome, nil
}

func hasTeams(roster []models.MatchPlayer) bool {
	for _, e := range roster {
		if e.Team != nil {
			return true
		}
	}
	return false
}

// applyResult updates rankings and counters. Everyone on the roster gets the
// match played; on a draw everyone gets the draw points; otherwise only the
// drafted sides win or lose points.
func (s *Service) applyResult(ctx context.Context, tx *repository.Store, roster []models.MatchPlayer, winner *models.Team) error {
	all := make([]uint, 0, len(roster))
	var winners, losers []uint
	for _, e := range roster {
		all = append(all, e.PlayerID)
		if winner == nil || e.Team == nil {
			continue
		}
		if *e.Team == *winner {
			winners = append(winners, e.PlayerID)
		} else {
			losers = append(losers, e.PlayerID)
		}
	}

	if err := tx.Users.IncrementPlayed(ctx, all); err != nil {
		return err
	}

	points := make(map[uint]int, len(all))
	won := make(map[uint]bool, len(winners))
	if winner == nil {
		if err := tx.Users.AdjustRanking(ctx, all, s.rules.DrawPoints); err != nil {
			return err
		}
		for _, id := range all {
			points[id] = s.rules.DrawPoints
		}
	} else {
		if err := tx.Users.AdjustRanking(ctx, winners, s.rules.WinPoints); err != nil {
			return err
		}
		if err := tx.Users.IncrementWon(ctx, winners); err != nil {
			return err
		}
		if err := tx.Users.AdjustRanking(ctx, losers, s.rules.LossPoints); err != nil {
			return err
		}
		for _, id := range winners {
			points[id] = s.rules.WinPoints
			won[id] = true
		}
		for _, id := range losers {
			points[id] = s.rules.LossPoints
		}
	}

	if s.seasons == nil {
		return nil
	}
	updated, err := tx.Users.ByIDs(ctx, all)
	if err != nil {
		return err
	}
	awards := make([]league.Award, 0, len(updated))
	for _, u := range updated {
		awards = append(awards, league.Award{
			PlayerID: u.ID,
			Points:   points[u.ID],
			Won:      won[u.ID],
			Ranking:  u.Ranking,
		})
	}
	return s.seasons.Accrue(ctx, tx, awards)
}

// ConfirmPayment sets whether a rostered player paid the organizer.
func (s *Service) ConfirmPayment(ctx context.Context, matchID, organizerID, playerID uint, confirmed bool) error {
	m, err := s.store.Matches.ByID(ctx, matchID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if m.OrganizerID != organizerID {
		return ErrNotOrganizer
	}
	err = s.store.Matches.SetPaymentConfirmed(ctx, matchID, playerID, confirmed)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotPlayerEntry
	}
	if err != nil {
		return err
	}
	s.events.Broadcast(matchID, hub.Event{Type: hub.EventPayment, Payload: map[string]any{
		"jugador_id":      playerID,
		"pago_confirmado": confirmed,
	}})
	return nil
}
