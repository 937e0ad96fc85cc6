package models

import (
	"time"

	"gorm.io/gorm"
)

// FriendshipStatus defines the state of a relationship between two users.
type FriendshipStatus string

const (
	// StatusPending means a friend request has been sent but not yet accepted.
	StatusPending FriendshipStatus = "pendiente"

	// StatusAccepted means the request was accepted and both users are friends.
	StatusAccepted FriendshipStatus = "aceptada"
)

// Friendship is a directed request from Requester to Addressee.
// PairLow/PairHigh hold the ordered pair so the database rejects a second
// row for the same two users regardless of direction.
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	RequesterID uint             `gorm:"not null;index"`
	AddresseeID uint             `gorm:"not null;index"`
	PairLow     uint             `gorm:"not null;uniqueIndex:idx_friendship_pair"`
	PairHigh    uint             `gorm:"not null;uniqueIndex:idx_friendship_pair"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Requester User `gorm:"foreignKey:RequesterID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Addressee User `gorm:"foreignKey:AddresseeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeCreate fills the ordered pair columns.
func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.PairLow, f.PairHigh = f.RequesterID, f.AddresseeID
	if f.PairLow > f.PairHigh {
		f.PairLow, f.PairHigh = f.PairHigh, f.PairLow
	}
	return nil
}

// Other returns the user on the opposite side of the relationship.
func (f *Friendship) Other(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
