package repository

import (
	"context"

	"fulvo/backend/internal/models"

	"gorm.io/gorm"
)

// VenueRepository reads and writes venues.
type VenueRepository struct {
	db *gorm.DB
}

func (r *VenueRepository) Create(ctx context.Context, v *models.Venue) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

// ByID loads a venue with its owner.
func (r *VenueRepository) ByID(ctx context.Context, id uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.db.WithContext(ctx).Joins("Owner").First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// OwnedBy loads a venue only when ownerID owns it.
func (r *VenueRepository) OwnedBy(ctx context.Context, id, ownerID uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// ListActive lists active venues, optionally filtered by a zone substring.
func (r *VenueRepository) ListActive(ctx context.Context, zone string) ([]models.Venue, error) {
	var venues []models.Venue
	q := r.db.WithContext(ctx).Joins("Owner").Where("venues.active = ?", true)
	if zone != "" {
		q = q.Where(`LOWER(venues.zone) LIKE ? ESCAPE '\'`, escapeLike(zone))
	}
	err := q.Order("venues.name ASC").Find(&venues).Error
	return venues, translate(err)
}

func (r *VenueRepository) ByOwner(ctx context.Context, ownerID uint) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&venues).Error
	return venues, translate(err)
}

// Zones lists the distinct non-empty zones of all venues.
func (r *VenueRepository) Zones(ctx context.Context) ([]string, error) {
	var zones []string
	err := r.db.WithContext(ctx).Model(&models.Venue{}).
		Where("zone <> ''").
		Distinct("zone").
		Order("zone ASC").
		Pluck("zone", &zones).Error
	return zones, translate(err)
}

// Save persists every field of v.
func (r *VenueRepository) Save(ctx context.Context, v *models.Venue) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

// Delete removes a venue owned by ownerID.
func (r *VenueRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Venue{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
