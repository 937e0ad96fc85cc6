package models

import "time"

// MatchStatus is the stored status of a match.
type MatchStatus string

const (
	MatchPending MatchStatus = "pendiente"
	MatchPlayed  MatchStatus = "jugado"
	// MatchPast is never stored; it is derived for pending matches whose
	// kickoff already happened.
	MatchPast MatchStatus = "pasado"
)

// Team is a side in a match once teams were drafted.
type Team string

const (
	TeamLocal   Team = "local"
	TeamVisitor Team = "visitante"
)

// Valid reports whether t is one of the two sides.
func (t Team) Valid() bool {
	return t == TeamLocal || t == TeamVisitor
}

// Match is a game organized by a venue owner.
// KickoffAt is the UTC instant of Date + StartTime in the venue timezone.
type Match struct {
	ID             uint   `gorm:"primaryKey"`
	VenueID        uint   `gorm:"not null;index"`
	OrganizerID    uint   `gorm:"not null;index"`
	Date           string `gorm:"size:10;not null"`
	StartTime      string `gorm:"size:5;not null"`
	EndTime        string `gorm:"size:5"`
	KickoffAt      time.Time `gorm:"not null;index"`
	MaxPlayers     int       `gorm:"not null;default:14"`
	Enrolled       int       `gorm:"not null;default:0"`
	PricePerPlayer int       `gorm:"not null;default:0"`
	Description    *string
	Status         MatchStatus `gorm:"size:20;not null;default:'pendiente'"`
	HomeScore      *int
	AwayScore      *int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Venue     Venue         `gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
	Organizer User          `gorm:"foreignKey:OrganizerID"`
	Players   []MatchPlayer `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE;"`
}

// DerivedStatus combines the stored status with the kickoff time.
func (m *Match) DerivedStatus(now time.Time) MatchStatus {
	if m.Status == MatchPlayed {
		return MatchPlayed
	}
	if m.KickoffAt.Before(now) {
		return MatchPast
	}
	return MatchPending
}

// MatchPlayer links a player to a match. One row per (match, player).
type MatchPlayer struct {
	ID               uint  `gorm:"primaryKey"`
	MatchID          uint  `gorm:"not null;uniqueIndex:idx_match_player"`
	PlayerID         uint  `gorm:"not null;uniqueIndex:idx_match_player;index"`
	Team             *Team `gorm:"size:20"`
	PaymentConfirmed bool  `gorm:"not null;default:false"`
	CreatedAt        time.Time

	Player User   `gorm:"foreignKey:PlayerID"`
	Match  *Match `gorm:"foreignKey:MatchID"`
}
