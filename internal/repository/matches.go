package repository

import (
	"context"
	"time"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// MatchRepository reads and writes matches and their rosters.
type MatchRepository struct {
	db *gorm.DB
}

// MatchFilter narrows the public match listing.
type MatchFilter struct {
	// From excludes matches that kicked off before it.
	From time.Time
	// Date restricts to a single YYYY-MM-DD day.
	Date string
	// Zone is a case-insensitive substring of the venue zone.
	Zone string
}

func (r *MatchRepository) Create(ctx context.Context, m *models.Match) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *MatchRepository) ByID(ctx context.Context, id uint) (*models.Match, error) {
	var m models.Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Detail loads a match with its venue, organizer and roster.
func (r *MatchRepository) Detail(ctx context.Context, id uint) (*models.Match, error) {
	var m models.Match
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Organizer").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Players.Player").
		First(&m, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Upcoming lists matches with their venue, earliest first.
func (r *MatchRepository) Upcoming(ctx context.Context, f MatchFilter) ([]models.Match, error) {
	var matches []models.Match
	q := r.db.WithContext(ctx).
		Joins("Venue").
		Where("matches.kickoff_at >= ?", f.From)
	if f.Date != "" {
		q = q.Where("matches.date = ?", f.Date)
	}
	if f.Zone != "" {
		q = q.Where(`LOWER("Venue"."zone") LIKE ? ESCAPE '\'`, escapeLike(f.Zone))
	}
	err := q.Order("matches.kickoff_at ASC").Find(&matches).Error
	return matches, translate(err)
}

// ByOrganizer lists an owner's matches, latest first.
func (r *MatchRepository) ByOrganizer(ctx context.Context, organizerID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Joins("Venue").
		Where("matches.organizer_id = ?", organizerID).
		Order("matches.kickoff_at DESC").
		Find(&matches).Error
	return matches, translate(err)
}

func (r *MatchRepository) playerEntries(ctx context.Context, playerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("Match").
		Preload("Match.Venue").
		Where("match_players.player_id = ?", playerID)
}

// PlayerEntries lists a player's roster rows with match and venue, earliest
// kickoff first.
func (r *MatchRepository) PlayerEntries(ctx context.Context, playerID uint) ([]models.MatchPlayer, error) {
	var entries []models.MatchPlayer
	err := r.playerEntries(ctx, playerID).
		Order(`"Match"."kickoff_at" ASC`).
		Find(&entries).Error
	return entries, translate(err)
}

// PlayedEntries lists a player's finished matches, latest first.
func (r *MatchRepository) PlayedEntries(ctx context.Context, playerID uint, limit int) ([]models.MatchPlayer, error) {
	var entries []models.MatchPlayer
	err := r.playerEntries(ctx, playerID).
		Where(`"Match"."status" = ?`, models.MatchPlayed).
		Order(`"Match"."kickoff_at" DESC`).
		Limit(limit).
		Find(&entries).Error
	return entries, translate(err)
}

// ReserveSlot increments the enrolled counter if a slot is free.
func (r *MatchRepository) ReserveSlot(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND enrolled < max_players", id).
		Update("enrolled", gorm.Expr("enrolled + 1"))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ReleaseSlot decrements the enrolled counter.
func (r *MatchRepository) ReleaseSlot(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND enrolled > 0", id).
		Update("enrolled", gorm.Expr("enrolled - 1")).Error)
}

func (r *MatchRepository) AddPlayer(ctx context.Context, mp *models.MatchPlayer) error {
	return translate(r.db.WithContext(ctx).Create(mp).Error)
}

// Entry loads the roster row of a player in a match.
func (r *MatchRepository) Entry(ctx context.Context, matchID, playerID uint) (*models.MatchPlayer, error) {
	var mp models.MatchPlayer
	err := r.db.WithContext(ctx).Where("match_id = ? AND player_id = ?", matchID, playerID).First(&mp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &mp, nil
}

func (r *MatchRepository) RemovePlayer(ctx context.Context, matchID, playerID uint) error {
	res := r.db.WithContext(ctx).Where("match_id = ? AND player_id = ?", matchID, playerID).Delete(&models.MatchPlayer{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Roster returns the enrolled players ordered by join time.
func (r *MatchRepository) Roster(ctx context.Context, matchID uint) ([]models.MatchPlayer, error) {
	var rows []models.MatchPlayer
	err := r.db.WithContext(ctx).
		Preload("Player").
		Where("match_id = ?", matchID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, translate(err)
}

// HasTeams reports whether any roster row carries a team.
func (r *MatchRepository) HasTeams(ctx context.Context, matchID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Where("match_id = ? AND team IS NOT NULL", matchID).
		Count(&n).Error
	return n > 0, translate(err)
}

// ClearTeams removes the team of every roster row.
func (r *MatchRepository) ClearTeams(ctx context.Context, matchID uint) error {
	return translate(r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Where("match_id = ?", matchID).
		Update("team", nil).Error)
}

// SetTeam assigns team to the given roster rows.
func (r *MatchRepository) SetTeam(ctx context.Context, entryIDs []uint, team models.Team) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Where("id IN ?", entryIDs).
		Update("team", team).Error)
}

// RecordResult stores the score and marks the match played.
func (r *MatchRepository) RecordResult(ctx context.Context, id uint, home, away int) error {
	res := r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"home_score": home,
			"away_score": away,
			"status":     models.MatchPlayed,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentConfirmed flips the payment flag of a roster row.
func (r *MatchRepository) SetPaymentConfirmed(ctx context.Context, matchID, playerID uint, confirmed bool) error {
	res := r.db.WithContext(ctx).Model(&models.MatchPlayer{}).
		Where("match_id = ? AND player_id = ?", matchID, playerID).
		Update("payment_confirmed", confirmed)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a match organized by organizerID together with its roster.
func (r *MatchRepository) Delete(ctx context.Context, id, organizerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Match{}).Where("id = ? AND organizer_id = ?", id, organizerID).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n == 0 {
			return ErrNotFound
		}
		if err := tx.Where("match_id = ?", id).Delete(&models.MatchPlayer{}).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&models.Match{}, id).Error)
	})
}

// CountByOrganizer counts the matches of an owner.
func (r *MatchRepository) CountByOrganizer(ctx context.Context, organizerID uint) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Match{}).Where("organizer_id = ?", organizerID).Count(&n).Error
	return int(n), translate(err)
}
