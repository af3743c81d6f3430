package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/arklim/shoplite-api/internal/core/domain"
	"github.com/arklim/shoplite-api/internal/core/port"
	"github.com/arklim/shoplite-api/internal/repository"
)

// ErrSelfDelete indicates a superadmin tried to delete their own account.
var ErrSelfDelete = errors.New("cannot delete own account")

// UserService handles account administration.
type UserService struct {
	users  port.UserRepository
	logger *zap.Logger
}

// NewUserService constructs a user service.
func NewUserService(users port.UserRepository, lg *zap.Logger) *UserService {
	return &UserService{users: users, logger: lg}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateRole assigns a new role to the account.
func (s *UserService) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	user, err := s.users.UpdateRole(ctx, id, domain.Role(role))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Actors can never delete themselves, so the last
// superadmin cannot lock everyone out.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	if actor != nil && actor.ID == id {
		return ErrSelfDelete
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
