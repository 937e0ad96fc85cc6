// Package owners computes the revenue dashboard shown to venue owners.
package owners

import (
	"context"
	"fmt"
	"math"
	"time"

	"fulvo/backend/internal/repository"

	"github.com/jonboulle/clockwork"
)

// MonthsShown is the length of the monthly revenue series.
const MonthsShown = 6

var monthLabels = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// Stats is the owner dashboard summary.
type Stats struct {
	TotalRevenue  int
	MonthRevenue  int
	TotalMatches  int
	MonthMatches  int
	UniquePlayers int
	PaidPlayers   int
	AverageRoster float64
	TopMatch      *repository.TopMatch
}

// MonthPoint is one bar of the monthly revenue chart.
type MonthPoint struct {
	Label   string
	Revenue int
}

type Service struct {
	store *repository.Store
	clock clockwork.Clock
	loc   *time.Location
}

func NewService(store *repository.Store, clock clockwork.Clock, loc *time.Location) *Service {
	return &Service{store: store, clock: clock, loc: loc}
}

func (s *Service) monthStart(offset int) time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, s.loc)
}

// Stats aggregates confirmed revenue and attendance for ownerID. "This
// month" is the calendar month in the venue timezone.
func (s *Service) Stats(ctx context.Context, ownerID uint) (*Stats, error) {
	first := s.monthStart(0)
	from := first.Format("2006-01-02")
	to := first.AddDate(0, 1, -1).Format("2006-01-02")

	var (
		st  Stats
		err error
	)
	stats := s.store.Stats
	if st.TotalRevenue, err = stats.Revenue(ctx, ownerID, "", ""); err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	if st.MonthRevenue, err = stats.Revenue(ctx, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("month revenue: %w", err)
	}
	if st.TotalMatches, err = stats.Matches(ctx, ownerID, "", ""); err != nil {
		return nil, fmt.Errorf("total matches: %w", err)
	}
	if st.MonthMatches, err = stats.Matches(ctx, ownerID, from, to); err != nil {
		return nil, fmt.Errorf("month matches: %w", err)
	}
	if st.UniquePlayers, err = stats.UniquePlayers(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("unique players: %w", err)
	}
	if st.PaidPlayers, err = stats.PaidPlayers(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("paid players: %w", err)
	}
	entries, err := stats.RosterEntries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("roster entries: %w", err)
	}
	if st.TotalMatches > 0 {
		st.AverageRoster = math.Round(float64(entries)/float64(st.TotalMatches)*10) / 10
	}
	if st.TopMatch, err = stats.Top(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("top match: %w", err)
	}
	return &st, nil
}

// Monthly returns confirmed revenue for the last MonthsShown months including
// the current one. Months without revenue are zero.
func (s *Service) Monthly(ctx context.Context, ownerID uint) ([]MonthPoint, error) {
	first := s.monthStart(-(MonthsShown - 1))
	rows, err := s.store.Stats.MonthlyRevenue(ctx, ownerID, first.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]int, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Revenue
	}

	out := make([]MonthPoint, 0, MonthsShown)
	for i := 0; i < MonthsShown; i++ {
		m := first.AddDate(0, i, 0)
		out = append(out, MonthPoint{
			Label:   monthLabels[m.Month()-1],
			Revenue: byMonth[m.Format("2006-01")],
		})
	}
	return out, nil
}
