package models

import (
	"time"

	"gorm.io/gorm"
)

// Role separates venue owners from players.
type Role string

const (
	RolePlayer Role = "jugador"
	RoleOwner  Role = "dueno"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleOwner
}

// Plan is the player subscription plan.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// DefaultRanking is the score every new player starts with.
const DefaultRanking = 50

// User represents a player or a venue owner.
type User struct {
	gorm.Model
	Name         string  `gorm:"size:255;not null"`
	Email        string  `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string  `gorm:"size:255;not null"`
	Role         Role    `gorm:"size:20;not null;index"`
	Position     *string `gorm:"size:50"`

	Ranking       int `gorm:"not null;default:50;index"`
	MatchesPlayed int `gorm:"not null;default:0"`
	MatchesWon    int `gorm:"not null;default:0"`

	// Free-tier quota. QuotaMonth is stored as YYYYMM.
	MonthlyJoins int `gorm:"not null;default:0"`
	QuotaMonth   int `gorm:"not null;default:0"`

	Plan                  Plan       `gorm:"size:20;not null;default:'free'"`
	SubscriptionActive    bool       `gorm:"not null;default:false"`
	SubscriptionExpiresAt *time.Time
	SubscriptionRef       *string `gorm:"size:100"`
	Blocked               bool    `gorm:"not null;default:false"`

	EmailVerified         bool    `gorm:"not null;default:false"`
	VerificationCode      *string `gorm:"size:6"`
	VerificationExpiresAt *time.Time
}

// EffectivePlan treats an expired premium plan as free.
func (u *User) EffectivePlan(now time.Time) Plan {
	if u.Plan == PlanPremium && u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now) {
		return PlanPremium
	}
	return PlanFree
}

// OwnerSubscriptionCurrent reports whether an owner may create matches.
func (u *User) OwnerSubscriptionCurrent(now time.Time) bool {
	return u.SubscriptionActive && u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now)
}

// WinPercentage is rounded to the nearest whole percent.
func WinPercentage(played, won int) int {
	if played <= 0 {
		return 0
	}
	return int(float64(won)/float64(played)*100 + 0.5)
}
