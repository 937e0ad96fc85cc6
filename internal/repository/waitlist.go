package repository

import (
	"context"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// WaitlistRepository stores pre-launch sign-ups.
type WaitlistRepository struct {
	db *gorm.DB
}

// Add inserts an entry, returning ErrDuplicate if the email exists.
func (r *WaitlistRepository) Add(ctx context.Context, e *models.WaitlistEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *WaitlistRepository) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&n).Error
	return int(n), translate(err)
}
