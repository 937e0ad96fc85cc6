package repository

import (
	"context"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// FriendshipRepository reads and writes friendships.
type FriendshipRepository struct {
	db *gorm.DB
}

func (r *FriendshipRepository) Create(ctx context.Context, f *models.Friendship) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *FriendshipRepository) ByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).Preload("Requester").Preload("Addressee").First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// Between finds the relationship of two users in either direction.
func (r *FriendshipRepository) Between(ctx context.Context, a, b uint) (*models.Friendship, error) {
	low, high := a, b
	if low > high {
		low, high = high, low
	}
	var f models.Friendship
	if err := r.db.WithContext(ctx).Where("pair_low = ? AND pair_high = ?", low, high).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// Involving lists every relationship that includes userID with one of the
// given counterparts.
func (r *FriendshipRepository) Involving(ctx context.Context, userID uint, others []uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	if len(others) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id IN ?) OR (addressee_id = ? AND requester_id IN ?)", userID, others, userID, others).
		Find(&rows).Error
	return rows, translate(err)
}

// Accepted lists accepted friendships of userID with both users loaded.
func (r *FriendshipRepository) Accepted(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").Preload("Addressee").
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Find(&rows).Error
	return rows, translate(err)
}

// PendingReceived lists requests addressed to userID, newest first.
func (r *FriendshipRepository) PendingReceived(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, models.StatusPending).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, translate(err)
}

// PendingSent lists requests sent by userID, newest first.
func (r *FriendshipRepository) PendingSent(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Addressee").
		Where("requester_id = ? AND status = ?", userID, models.StatusPending).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, translate(err)
}

// Accept marks a pending request addressed to userID as accepted.
func (r *FriendshipRepository) Accept(ctx context.Context, id, addresseeID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND addressee_id = ? AND status = ?", id, addresseeID, models.StatusPending).
		Update("status", models.StatusAccepted)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FriendshipRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error)
}
