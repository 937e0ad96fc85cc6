package league

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/metrics"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	StandingsLimit  = 20
	TopDiamondLimit = 10
	dateLayout      = "2006-01-02"
)

var (
	ErrNoActiveSeason = apperr.NotFound("No hay temporada activa")
	ErrInvalidLeague  = apperr.Invalid("Liga inválida")
	ErrUserNotFound   = apperr.NotFound("Usuario no encontrado")
	ErrSeasonOpen     = apperr.Conflict("Ya hay una temporada activa")
)

// Service reads league standings and drives the season lifecycle.
type Service struct {
	store   *repository.Store
	clock   clockwork.Clock
	loc     *time.Location
	metrics metrics.Metrics
	log     zerolog.Logger
}

func NewService(store *repository.Store, clock clockwork.Clock, loc *time.Location, m metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{store: store, clock: clock, loc: loc, metrics: m, log: log}
}

// SeasonView is an active season with the days left until it ends.
type SeasonView struct {
	Season        models.Season
	DaysRemaining int
}

// MyLeague is the caller's tier and position in the active season.
type MyLeague struct {
	Tier     Tier
	Ranking  int
	Entry    *models.LeaguePlayer
	Position int
	Total    int
	Season   *SeasonView
}

// StandingsView is a league table of the active season.
type StandingsView struct {
	Tier   Tier
	Season *models.Season
	Rows   []repository.Standing
}

// Award is the season credit of one player after a result.
type Award struct {
	PlayerID uint
	Points   int
	Won      bool
	// Ranking is the all-time ranking after the result was applied.
	Ranking int
}

// RolloverResult summarises a closed season.
type RolloverResult struct {
	Closed  *models.Season
	Opened  *models.Season
	Awarded int
}

func (s *Service) today() time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

func (s *Service) view(season *models.Season) *SeasonView {
	end, err := time.ParseInLocation(dateLayout, season.EndsOn, s.loc)
	days := 0
	if err == nil {
		days = int(end.Sub(s.today()).Hours() / 24)
	}
	return &SeasonView{Season: *season, DaysRemaining: days}
}

// CurrentSeason returns the active season.
func (s *Service) CurrentSeason(ctx context.Context) (*SeasonView, error) {
	season, err := s.store.Seasons.Active(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoActiveSeason
	}
	if err != nil {
		return nil, err
	}
	return s.view(season), nil
}

// MyLeague classifies the user and, when a season is running, creates or
// refreshes their league row.
func (s *Service) MyLeague(ctx context.Context, userID uint) (*MyLeague, error) {
	user, err := s.store.Users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	lg := Classify(user.Ranking)
	tier, _ := TierOf(lg)
	out := &MyLeague{Tier: tier, Ranking: user.Ranking}

	season, err := s.store.Seasons.Active(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	entry, err := s.store.Seasons.EnsureEntry(ctx, season.ID, userID, lg)
	if err != nil {
		return nil, err
	}
	position, err := s.store.Seasons.Position(ctx, season.ID, lg, user.Ranking)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Seasons.CountInLeague(ctx, season.ID, lg)
	if err != nil {
		return nil, err
	}

	out.Entry = entry
	out.Position = position
	out.Total = total
	out.Season = s.view(season)
	return out, nil
}

// Standings lists the top of a league in the active season.
func (s *Service) Standings(ctx context.Context, lg models.League) (*StandingsView, error) {
	return s.standings(ctx, lg, StandingsLimit)
}

// TopDiamond lists the best diamond players of the active season.
func (s *Service) TopDiamond(ctx context.Context) (*StandingsView, error) {
	return s.standings(ctx, models.LeagueDiamond, TopDiamondLimit)
}

func (s *Service) standings(ctx context.Context, lg models.League, limit int) (*StandingsView, error) {
	tier, ok := TierOf(lg)
	if !ok {
		return nil, ErrInvalidLeague
	}
	out := &StandingsView{Tier: tier, Rows: []repository.Standing{}}

	season, err := s.store.Seasons.Active(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Seasons.Standings(ctx, season.ID, lg, limit)
	if err != nil {
		return nil, err
	}
	out.Season = season
	out.Rows = rows
	return out, nil
}

// Accrue credits season counters for every award. It is a no-op without an
// active season. tx must be the store of the enclosing transaction.
func (s *Service) Accrue(ctx context.Context, tx *repository.Store, awards []Award) error {
	if len(awards) == 0 {
		return nil
	}
	season, err := tx.Seasons.Active(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, a := range awards {
		points := a.Points
		if points < 0 {
			points = 0
		}
		if err := tx.Seasons.Accrue(ctx, season.ID, a.PlayerID, Classify(a.Ranking), points, a.Won); err != nil {
			return fmt.Errorf("accrue season points for player %d: %w", a.PlayerID, err)
		}
	}
	return nil
}

// OpenSeason starts a season today lasting days days.
func (s *Service) OpenSeason(ctx context.Context, name string, days int) (*models.Season, error) {
	if days <= 0 {
		return nil, apperr.Invalid("La temporada debe durar al menos un día")
	}
	if _, err := s.store.Seasons.Active(ctx); err == nil {
		return nil, ErrSeasonOpen
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	start := s.today()
	season := &models.Season{
		Name:     name,
		StartsOn: start.Format(dateLayout),
		EndsOn:   start.AddDate(0, 0, days).Format(dateLayout),
		Status:   models.SeasonActive,
	}
	if err := s.store.Seasons.Create(ctx, season); err != nil {
		return nil, err
	}
	s.log.Info().Uint("season_id", season.ID).Str("ends_on", season.EndsOn).Msg("season opened")
	return season, nil
}

// Rollover closes the active season once its end date has passed, pays the
// league prize of every player who played in it and opens the next season.
// It returns nil without error when nothing is due.
func (s *Service) Rollover(ctx context.Context) (*RolloverResult, error) {
	var result *RolloverResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		season, err := tx.Seasons.Active(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		today := s.today().Format(dateLayout)
		if season.EndsOn >= today {
			return nil
		}

		participants, err := tx.Seasons.Participants(ctx, season.ID)
		if err != nil {
			return err
		}
		for _, p := range participants {
			tier, ok := TierOf(p.League)
			if !ok {
				continue
			}
			if err := tx.Users.AdjustRanking(ctx, []uint{p.PlayerID}, tier.Prize); err != nil {
				return fmt.Errorf("pay prize to player %d: %w", p.PlayerID, err)
			}
		}
		if err := tx.Seasons.Finish(ctx, season.ID); err != nil {
			return err
		}

		start := s.today()
		next := &models.Season{
			Name:     seasonName(start),
			StartsOn: start.Format(dateLayout),
			EndsOn:   start.AddDate(0, 1, 0).Format(dateLayout),
			Status:   models.SeasonActive,
		}
		if err := tx.Seasons.Create(ctx, next); err != nil {
			return err
		}
		season.Status = models.SeasonFinished
		result = &RolloverResult{Closed: season, Opened: next, Awarded: len(participants)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result != nil {
		s.metrics.IncSeasonRollovers()
		s.log.Info().
			Uint("closed", result.Closed.ID).
			Uint("opened", result.Opened.ID).
			Int("awarded", result.Awarded).
			Msg("season rolled over")
	}
	return result, nil
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func seasonName(start time.Time) string {
	return fmt.Sprintf("Temporada %s %d", monthNames[start.Month()-1], start.Year())
}
