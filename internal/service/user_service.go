package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	apperrors "blogly/internal/errors"
	"blogly/internal/metrics"
	"blogly/internal/model"
	"blogly/internal/repository"
)

// CreateUserInput carries the fields of the new user form.
type CreateUserInput struct {
	FirstName string
	LastName  string
	ImageURL  string
}

// UpdateUserInput carries the fields of the edit user form. Empty fields keep
// the stored value.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	ImageURL  string
}

// UserService exposes user operations.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
	uow  repository.UnitOfWork
	log  *slog.Logger
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, uow repository.UnitOfWork, log *slog.Logger) UserService {
	return &userService{repo: repo, uow: uow, log: log}
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (user *model.User, err error) {
	defer func() { metrics.RecordOperation("user", "create", err) }()

	if strings.TrimSpace(input.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, fmt.Errorf("%w: last_name is required", apperrors.ErrValidation)
	}

	user = &model.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		ImageURL:  input.ImageURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user created", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", id, err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (user *model.User, err error) {
	defer func() { metrics.RecordOperation("user", "update", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Users.FindByID(ctx, id)
		if err != nil {
			return notFound("user", id, err)
		}

		if input.FirstName != "" {
			existing.FirstName = input.FirstName
		}
		if input.LastName != "" {
			existing.LastName = input.LastName
		}
		if input.ImageURL != "" {
			existing.ImageURL = input.ImageURL
		}

		if err := repos.Users.Update(ctx, existing); err != nil {
			return fmt.Errorf("update user %d: %w", id, err)
		}
		user = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user updated", slog.Uint64("user_id", uint64(id)))
	return user, nil
}

// DeleteUser removes the user together with their posts and the posts' tag
// links. An unknown id is a no-op.
func (s *userService) DeleteUser(ctx context.Context, id uint) (err error) {
	defer func() { metrics.RecordOperation("user", "delete", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Posts.DetachTagsByUser(ctx, id); err != nil {
			return fmt.Errorf("detach tags of user %d: %w", id, err)
		}
		if err := repos.Posts.DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("delete posts of user %d: %w", id, err)
		}
		if err := repos.Users.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}

// notFound turns gorm.ErrRecordNotFound into ErrNotFound and wraps the rest.
func notFound(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, apperrors.ErrNotFound)
	}
	return fmt.Errorf("find %s %d: %w", entity, id, err)
}
