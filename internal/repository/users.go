package repository

import (
	"context"
	"time"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository reads and writes users.
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) ByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

// Updates writes the given columns. Map keys are column names.
func (r *UserRepository) Updates(ctx context.Context, id uint, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeFreeJoin increments the monthly counter for month (YYYYMM), resetting
// it when the stored month differs. It reports false when the limit is reached.
func (r *UserRepository) ConsumeFreeJoin(ctx context.Context, id uint, month, limit int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND (quota_month <> ? OR monthly_joins < ?)", id, month, limit).
		Updates(map[string]any{
			"monthly_joins": gorm.Expr("CASE WHEN quota_month = ? THEN monthly_joins + 1 ELSE 1 END", month),
			"quota_month":   month,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// AdjustRanking adds delta to the ranking of every id, never going below zero.
func (r *UserRepository) AdjustRanking(ctx context.Context, ids []uint, delta int) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Update("ranking", gorm.Expr("CASE WHEN ranking + ? < 0 THEN 0 ELSE ranking + ? END", delta, delta)).Error)
}

// IncrementPlayed adds one played match to every id.
func (r *UserRepository) IncrementPlayed(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Update("matches_played", gorm.Expr("matches_played + 1")).Error)
}

// IncrementWon adds one won match to every id.
func (r *UserRepository) IncrementWon(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN ?", ids).
		Update("matches_won", gorm.Expr("matches_won + 1")).Error)
}

// TopPlayers lists players by ranking, then wins.
func (r *UserRepository) TopPlayers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", models.RolePlayer).
		Order("ranking DESC").Order("matches_won DESC").Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}

// RankPosition counts players strictly ahead of the given ranking plus one.
func (r *UserRepository) RankPosition(ctx context.Context, ranking int) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND ranking > ?", models.RolePlayer, ranking).
		Count(&n).Error
	return int(n) + 1, translate(err)
}

// CountPlayers counts users with the player role.
func (r *UserRepository) CountPlayers(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RolePlayer).Count(&n).Error
	return int(n), translate(err)
}

// SearchPlayers matches names case-insensitively, excluding one user.
func (r *UserRepository) SearchPlayers(ctx context.Context, term string, exclude uint, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND id <> ?", models.RolePlayer, exclude).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(term)).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}

// ExpireSubscriptions deactivates owner subscriptions and premium plans whose
// expiry passed. It returns the number of users touched.
func (r *UserRepository) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("subscription_active = ? AND subscription_expires_at IS NOT NULL AND subscription_expires_at <= ?", true, now).
		Update("subscription_active", false)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	total += res.RowsAffected
	res = r.db.WithContext(ctx).Model(&models.User{}).
		Where("plan = ? AND (subscription_expires_at IS NULL OR subscription_expires_at <= ?)", models.PlanPremium, now).
		Update("plan", models.PlanFree)
	if res.Error != nil {
		return total, translate(res.Error)
	}
	return total + res.RowsAffected, nil
}
