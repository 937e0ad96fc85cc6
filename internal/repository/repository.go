// Package repository is the data-access layer over gorm.
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the typed repositories over one connection or transaction.
type Store struct {
	db *gorm.DB

	Users       *UserRepository
	Venues      *VenueRepository
	Matches     *MatchRepository
	Friendships *FriendshipRepository
	Seasons     *SeasonRepository
	Waitlist    *WaitlistRepository
	Stats       *StatsRepository
}

// New binds every repository to db.
func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       &UserRepository{db: db},
		Venues:      &VenueRepository{db: db},
		Matches:     &MatchRepository{db: db},
		Friendships: &FriendshipRepository{db: db},
		Seasons:     &SeasonRepository{db: db},
		Waitlist:    &WaitlistRepository{db: db},
		Stats:       &StatsRepository{db: db},
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn with a Store bound to a single transaction.
// The transaction rolls back when fn returns an error and commits otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
