package models

import "time"

// WaitlistEntry is a pre-launch sign-up.
type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Source    string    `gorm:"size:50;not null;default:'landing'" json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every persisted model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Venue{},
		&Match{},
		&MatchPlayer{},
		&Friendship{},
		&Season{},
		&LeaguePlayer{},
		&WaitlistEntry{},
	}
}
