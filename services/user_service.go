package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/pong-ledger/models"
	"github.com/Dosada05/pong-ledger/repositories"
)

// UserService is the participant directory: it resolves user ids to display identities.
// Accounts themselves are owned by the identity subsystem.
type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetDisplayIdentity(ctx context.Context, id int64) (*models.PlayerView, error)
	// LookupDisplayIdentities returns identities for the known ids; unknown ids are absent from the map.
	LookupDisplayIdentities(ctx context.Context, ids []int64) (map[int64]models.PlayerView, error)
	AIUser(ctx context.Context) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetDisplayIdentity(ctx context.Context, id int64) (*models.PlayerView, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toPlayerView(user)
	return &view, nil
}

func (s *userService) LookupDisplayIdentities(ctx context.Context, ids []int64) (map[int64]models.PlayerView, error) {
	users, err := s.userRepo.ListByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	views := make(map[int64]models.PlayerView, len(users))
	for i := range users {
		views[users[i].ID] = toPlayerView(&users[i])
	}
	return views, nil
}

func (s *userService) AIUser(ctx context.Context) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, models.AIUsername)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAIUserUnavailable
		}
		return nil, fmt.Errorf("failed to load AI user: %w", err)
	}
	return user, nil
}

func toPlayerView(u *models.User) models.PlayerView {
	return models.PlayerView{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
