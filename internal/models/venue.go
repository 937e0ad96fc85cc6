package models

import "time"

// Venue is a football field listed by its owner.
type Venue struct {
	ID          uint    `gorm:"primaryKey"`
	OwnerID     uint    `gorm:"not null;index"`
	Name        string  `gorm:"size:255;not null"`
	Address     string  `gorm:"size:255;not null"`
	Zone        string  `gorm:"size:100;not null;index"`
	Phone       *string `gorm:"size:50"`
	HourlyPrice *int
	Description *string
	Amenities   *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE;"`
}
