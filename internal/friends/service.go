// Package friends manages friend requests between users.
package friends

import (
	"context"
	"errors"
	"sort"
	"strings"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/models"
	"fulvo/backend/internal/repository"
)

const (
	SearchMinLength = 2
	SearchLimit     = 20
)

// Relation is how another user relates to the viewer.
type Relation string

const (
	RelationFriend   Relation = "amigo"
	RelationSent     Relation = "solicitud_enviada"
	RelationReceived Relation = "solicitud_recibida"
	RelationNone     Relation = "ninguna"
	RelationSelf     Relation = "yo_mismo"
)

var (
	ErrSelfRequest       = apperr.Invalid("No podés agregarte a vos mismo")
	ErrUserNotFound      = apperr.NotFound("Usuario no encontrado")
	ErrAlreadyFriends    = apperr.Invalid("Ya son amigos")
	ErrRequestPending    = apperr.Invalid("Ya existe una solicitud pendiente")
	ErrRequestNotFound   = apperr.NotFound("Solicitud no encontrada o ya procesada")
	ErrFriendshipMissing = apperr.NotFound("Amistad no encontrada")
)

// Service implements the friend graph.
type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// Friend is an accepted friendship seen from one side.
type Friend struct {
	Friendship models.Friendship
	User       models.User
}

// Friends lists accepted friends of userID sorted by name.
func (s *Service) Friends(ctx context.Context, userID uint) ([]Friend, error) {
	rows, err := s.store.Friendships.Accepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(rows))
	for _, f := range rows {
		other := f.Requester
		if f.RequesterID == userID {
			other = f.Addressee
		}
		out = append(out, Friend{Friendship: f, User: other})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].User.Name < out[j].User.Name })
	return out, nil
}

// Pending lists requests waiting for userID to answer.
func (s *Service) Pending(ctx context.Context, userID uint) ([]Friend, error) {
	rows, err := s.store.Friendships.PendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(rows))
	for _, f := range rows {
		out = append(out, Friend{Friendship: f, User: f.Requester})
	}
	return out, nil
}

// Sent lists requests userID sent that are still pending.
func (s *Service) Sent(ctx context.Context, userID uint) ([]Friend, error) {
	rows, err := s.store.Friendships.PendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(rows))
	for _, f := range rows {
		out = append(out, Friend{Friendship: f, User: f.Addressee})
	}
	return out, nil
}

// SearchResult is a player matching a search with its relation to the viewer.
type SearchResult struct {
	User     models.User
	Relation Relation
}

// Search finds players by name. Queries shorter than SearchMinLength return
// nothing.
func (s *Service) Search(ctx context.Context, userID uint, q string) ([]SearchResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < SearchMinLength {
		return []SearchResult{}, nil
	}
	users, err := s.store.Users.SearchPlayers(ctx, q, userID, SearchLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	rels, err := s.store.Friendships.Involving(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	byOther := make(map[uint]models.Friendship, len(rels))
	for _, f := range rels {
		byOther[f.Other(userID)] = f
	}

	out := make([]SearchResult, 0, len(users))
	for _, u := range users {
		rel := RelationNone
		if f, ok := byOther[u.ID]; ok {
			rel = relationOf(&f, userID)
		}
		out = append(out, SearchResult{User: u, Relation: rel})
	}
	return out, nil
}

// Status returns the relation between viewer and target and the friendship
// id when one exists.
func (s *Service) Status(ctx context.Context, viewer, target uint) (Relation, *uint, error) {
	if viewer == target {
		return RelationSelf, nil, nil
	}
	f, err := s.store.Friendships.Between(ctx, viewer, target)
	if errors.Is(err, repository.ErrNotFound) {
		return RelationNone, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return relationOf(f, viewer), &f.ID, nil
}

func relationOf(f *models.Friendship, viewer uint) Relation {
	switch {
	case f.Status == models.StatusAccepted:
		return RelationFriend
	case f.RequesterID == viewer:
		return RelationSent
	default:
		return RelationReceived
	}
}

// Request sends a friend request from one user to another and returns the
// new friendship and the addressee.
func (s *Service) Request(ctx context.Context, from, to uint) (*models.Friendship, *models.User, error) {
	if from == to {
		return nil, nil, ErrSelfRequest
	}
	target, err := s.store.Users.ByID(ctx, to)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrUserNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.store.Friendships.Between(ctx, from, to)
	switch {
	case err == nil:
		if existing.Status == models.StatusAccepted {
			return nil, nil, ErrAlreadyFriends
		}
		return nil, nil, ErrRequestPending
	case !errors.Is(err, repository.ErrNotFound):
		return nil, nil, err
	}

	f := &models.Friendship{RequesterID: from, AddresseeID: to, Status: models.StatusPending}
	if err := s.store.Friendships.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrRequestPending
		}
		return nil, nil, err
	}
	return f, target, nil
}

// Accept accepts a pending request addressed to userID and returns the
// requester.
func (s *Service) Accept(ctx context.Context, userID, friendshipID uint) (*models.User, error) {
	f, err := s.store.Friendships.ByID(ctx, friendshipID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if f.AddresseeID != userID || f.Status != models.StatusPending {
		return nil, ErrRequestNotFound
	}
	if err := s.store.Friendships.Accept(ctx, friendshipID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &f.Requester, nil
}

// Remove deletes a friendship or rejects a request involving userID. It
// reports whether the removed row was still pending.
func (s *Service) Remove(ctx context.Context, userID, friendshipID uint) (bool, error) {
	f, err := s.store.Friendships.ByID(ctx, friendshipID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrFriendshipMissing
	}
	if err != nil {
		return false, err
	}
	if f.RequesterID != userID && f.AddresseeID != userID {
		return false, ErrFriendshipMissing
	}
	if err := s.store.Friendships.Delete(ctx, friendshipID); err != nil {
		return false, err
	}
	return f.Status == models.StatusPending, nil
}
