package repository

import (
	"context"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// StatsRepository runs the aggregate queries behind owner dashboards.
type StatsRepository struct {
	db *gorm.DB
}

// TopMatch is the match with the highest confirmed revenue.
type TopMatch struct {
	MatchID     uint
	Date        string
	VenueName   string
	Revenue     int
	PaidPlayers int
}

// MonthRevenue is confirmed revenue grouped by YYYY-MM.
type MonthRevenue struct {
	Month   string
	Revenue int
}

func (r *StatsRepository) paidEntries(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Joins("JOIN matches ON matches.id = match_players.match_id").
		Where("matches.organizer_id = ? AND match_players.payment_confirmed = ?", ownerID, true)
}

// Revenue sums confirmed payments of matches dated in [from, to].
// Empty bounds are open.
func (r *StatsRepository) Revenue(ctx context.Context, ownerID uint, from, to string) (int, error) {
	var total int64
	q := r.paidEntries(ctx, ownerID)
	if from != "" {
		q = q.Where("matches.date >= ?", from)
	}
	if to != "" {
		q = q.Where("matches.date <= ?", to)
	}
	err := q.Select("COALESCE(SUM(matches.price_per_player), 0)").Scan(&total).Error
	return int(total), translate(err)
}

// PaidPlayers counts roster rows with a confirmed payment.
func (r *StatsRepository) PaidPlayers(ctx context.Context, ownerID uint) (int, error) {
	var n int64
	err := r.paidEntries(ctx, ownerID).Count(&n).Error
	return int(n), translate(err)
}

// Matches counts an owner's matches dated in [from, to].
func (r *StatsRepository) Matches(ctx context.Context, ownerID uint, from, to string) (int, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Match{}).Where("organizer_id = ?", ownerID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	err := q.Count(&n).Error
	return int(n), translate(err)
}

// RosterEntries counts every enrollment across an owner's matches.
func (r *StatsRepository) RosterEntries(ctx context.Context, ownerID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Joins("JOIN matches ON matches.id = match_players.match_id").
		Where("matches.organizer_id = ?", ownerID).
		Count(&n).Error
	return int(n), translate(err)
}

// UniquePlayers counts distinct players across an owner's matches.
func (r *StatsRepository) UniquePlayers(ctx context.Context, ownerID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Joins("JOIN matches ON matches.id = match_players.match_id").
		Where("matches.organizer_id = ?", ownerID).
		Distinct("match_players.player_id").
		Count(&n).Error
	return int(n), translate(err)
}

// Top returns the match with the most confirmed revenue, or nil.
func (r *StatsRepository) Top(ctx context.Context, ownerID uint) (*TopMatch, error) {
	var rows []TopMatch
	err := r.paidEntries(ctx, ownerID).
		Select("matches.id AS match_id, matches.date, venues.name AS venue_name, " +
			"COUNT(match_players.id) * matches.price_per_player AS revenue, COUNT(match_players.id) AS paid_players").
		Joins("JOIN venues ON venues.id = matches.venue_id").
		Group("matches.id, matches.date, venues.name, matches.price_per_player").
		Order("revenue DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// MonthlyRevenue groups confirmed revenue by month for matches dated on or after from.
func (r *StatsRepository) MonthlyRevenue(ctx context.Context, ownerID uint, from string) ([]MonthRevenue, error) {
	var rows []MonthRevenue
	err := r.paidEntries(ctx, ownerID).
		Select("SUBSTR(matches.date, 1, 7) AS month, COALESCE(SUM(matches.price_per_player), 0) AS revenue").
		Where("matches.date >= ?", from).
		Group("SUBSTR(matches.date, 1, 7)").
		Order("month ASC").
		Scan(&rows).Error
	return rows, translate(err)
}
