package repository

import (
	"context"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeasonRepository reads and writes seasons and league standings.
type SeasonRepository struct {
	db *gorm.DB
}

// Standing is one row of a league table.
type Standing struct {
	PlayerID uint
	Name     string
	Ranking  int
	Points   int
	Matches  int
	Wins     int
}

func (r *SeasonRepository) Create(ctx context.Context, s *models.Season) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

// Active returns the most recently started active season.
func (r *SeasonRepository) Active(ctx context.Context) (*models.Season, error) {
	var s models.Season
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SeasonActive).
		Order("starts_on DESC").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Finish closes a season.
func (r *SeasonRepository) Finish(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Season{}).
		Where("id = ? AND status = ?", id, models.SeasonActive).
		Update("status", models.SeasonFinished)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Entry loads the league row of a player in a season.
func (r *SeasonRepository) Entry(ctx context.Context, seasonID, playerID uint) (*models.LeaguePlayer, error) {
	var lp models.LeaguePlayer
	err := r.db.WithContext(ctx).Where("season_id = ? AND player_id = ?", seasonID, playerID).First(&lp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &lp, nil
}

// EnsureEntry creates the league row if missing and keeps its tier current.
func (r *SeasonRepository) EnsureEntry(ctx context.Context, seasonID, playerID uint, league models.League) (*models.LeaguePlayer, error) {
	lp := models.LeaguePlayer{SeasonID: seasonID, PlayerID: playerID, League: league}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "season_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"league", "updated_at"}),
	}).Create(&lp).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.Entry(ctx, seasonID, playerID)
}

// Accrue adds season counters for a player, creating the row on first use.
func (r *SeasonRepository) Accrue(ctx context.Context, seasonID, playerID uint, league models.League, points int, won bool) error {
	wins := 0
	if won {
		wins = 1
	}
	lp := models.LeaguePlayer{
		SeasonID: seasonID,
		PlayerID: playerID,
		League:   league,
		Points:   points,
		Matches:  1,
		Wins:     wins,
	}
	return translate(r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "season_id"}, {Name: "player_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "league"}, Value: gorm.Expr("excluded.league")},
			{Column: clause.Column{Name: "points"}, Value: gorm.Expr("league_players.points + excluded.points")},
			{Column: clause.Column{Name: "matches"}, Value: gorm.Expr("league_players.matches + excluded.matches")},
			{Column: clause.Column{Name: "wins"}, Value: gorm.Expr("league_players.wins + excluded.wins")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
		},
	}).Create(&lp).Error)
}

// Position counts league members with a strictly higher ranking, plus one.
func (r *SeasonRepository) Position(ctx context.Context, seasonID uint, league models.League, ranking int) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.LeaguePlayer{}).
		Joins("JOIN users ON users.id = league_players.player_id").
		Where("league_players.season_id = ? AND league_players.league = ? AND users.ranking > ?", seasonID, league, ranking).
		Count(&n).Error
	return int(n) + 1, translate(err)
}

// CountInLeague counts the members of a league in a season.
func (r *SeasonRepository) CountInLeague(ctx context.Context, seasonID uint, league models.League) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.LeaguePlayer{}).
		Where("season_id = ? AND league = ?", seasonID, league).
		Count(&n).Error
	return int(n), translate(err)
}

// Standings lists a league ordered by all-time ranking.
func (r *SeasonRepository) Standings(ctx context.Context, seasonID uint, league models.League, limit int) ([]Standing, error) {
	var rows []Standing
	err := r.db.WithContext(ctx).Model(&models.LeaguePlayer{}).
		Select("users.id AS player_id, users.name, users.ranking, league_players.points, league_players.matches, league_players.wins").
		Joins("JOIN users ON users.id = league_players.player_id").
		Where("league_players.season_id = ? AND league_players.league = ?", seasonID, league).
		Order("users.ranking DESC").Order("users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, translate(err)
}

// Participants lists league rows of players who played in the season.
func (r *SeasonRepository) Participants(ctx context.Context, seasonID uint) ([]models.LeaguePlayer, error) {
	var rows []models.LeaguePlayer
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND matches > 0", seasonID).
		Order("id ASC").
		Find(&rows).Error
	return rows, translate(err)
}
