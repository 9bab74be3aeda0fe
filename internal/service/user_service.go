package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.UserSummary, 0, len(users))
	for i := range users {
		res = append(res, users[i].Summary())
	}
	return res, nil
}

// UpdateUserInput has no email or password; those are ignored if sent.
type UpdateUserInput struct {
	Name *string `json:"name"`
}

func (s *UserService) Update(ctx context.Context, actorID, targetID int64, in UpdateUserInput) (*domain.User, error) {
	if actorID != targetID {
		return nil, domain.Forbidden("No autorizado")
	}
	u, err := s.store.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validation("El nombre es requerido")
		}
		u.Name = name
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
