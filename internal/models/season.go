package models

import "time"

// League is a ranking tier.
type League string

const (
	LeagueBronze   League = "bronce"
	LeagueSilver   League = "plata"
	LeagueGold     League = "oro"
	LeaguePlatinum League = "platino"
	LeagueDiamond  League = "diamante"
)

// Valid reports whether l is a known tier.
func (l League) Valid() bool {
	switch l {
	case LeagueBronze, LeagueSilver, LeagueGold, LeaguePlatinum, LeagueDiamond:
		return true
	}
	return false
}

// SeasonStatus tracks whether a season is the current one.
type SeasonStatus string

const (
	SeasonActive   SeasonStatus = "activa"
	SeasonFinished SeasonStatus = "finalizada"
)

// Season is a time-boxed competition period. Dates are YYYY-MM-DD.
type Season struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null"`
	StartsOn  string       `gorm:"size:10;not null"`
	EndsOn    string       `gorm:"size:10;not null"`
	Status    SeasonStatus `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaguePlayer holds a player's standing within one season.
type LeaguePlayer struct {
	ID        uint   `gorm:"primaryKey"`
	SeasonID  uint   `gorm:"not null;uniqueIndex:idx_season_player"`
	PlayerID  uint   `gorm:"not null;uniqueIndex:idx_season_player"`
	League    League `gorm:"size:20;not null;index"`
	Points    int    `gorm:"not null;default:0"`
	Matches   int    `gorm:"not null;default:0"`
	Wins      int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Season Season `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE;"`
	Player User   `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE;"`
}
