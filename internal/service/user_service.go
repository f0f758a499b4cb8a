package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/socialnet-api/internal/models"
	"github.com/maheshrc27/socialnet-api/internal/repository"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
)

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, uc *transfer.UserCreation) (*models.User, error)
}

type userService struct {
	u repository.UserRepository
}

func NewUserService(u repository.UserRepository) UserService {
	return &userService{
		u: u,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, isExist, err := s.u.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("failed to get user info", err)
	}

	if !isExist {
		slog.Info("user not found", "user_id", id)
		return nil, newError(ErrNotFound, "user not found")
	}

	return user, nil
}

// CreateUser returns the existing user when the email is already registered.
func (s *userService) CreateUser(ctx context.Context, uc *transfer.UserCreation) (*models.User, error) {
	if uc == nil || uc.Email == "" || uc.Name == "" {
		return nil, newError(ErrMissingField, "email and name are required")
	}

	existing, isExist, err := s.u.GetByEmail(ctx, uc.Email)
	if err != nil {
		return nil, storageError("failed to look up user", err)
	}
	if isExist {
		return existing, nil
	}

	user := &models.User{
		Email:          uc.Email,
		Name:           uc.Name,
		ProfilePicture: uc.ProfilePicture,
	}
	if _, err := s.u.Create(ctx, nil, user); err != nil {
		return nil, storageError("failed to create user", err)
	}
	return user, nil
}
