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

// TagService exposes tag operations.
type TagService interface {
	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	GetTag(ctx context.Context, id uint) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	UpdateTag(ctx context.Context, id uint, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uint) error
}

type tagService struct {
	repo repository.TagRepository
	uow  repository.UnitOfWork
	log  *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(repo repository.TagRepository, uow repository.UnitOfWork, log *slog.Logger) TagService {
	return &tagService{repo: repo, uow: uow, log: log}
}

func (s *tagService) CreateTag(ctx context.Context, name string) (tag *model.Tag, err error) {
	defer func() { metrics.RecordOperation("tag", "create", err) }()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: tag_name is required", apperrors.ErrValidation)
	}

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := ensureNameFree(ctx, repos.Tags, name, 0); err != nil {
			return err
		}
		tag = &model.Tag{Tag: name}
		if err := repos.Tags.Create(ctx, tag); err != nil {
			return duplicate(name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tag created", slog.Uint64("tag_id", uint64(tag.ID)), slog.String("tag", name))
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("tag", id, err)
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.List(ctx)
}

// UpdateTag overwrites the tag name as submitted.
func (s *tagService) UpdateTag(ctx context.Context, id uint, name string) (tag *model.Tag, err error) {
	defer func() { metrics.RecordOperation("tag", "update", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Tags.FindByID(ctx, id)
		if err != nil {
			return notFound("tag", id, err)
		}
		if err := ensureNameFree(ctx, repos.Tags, name, id); err != nil {
			return err
		}

		existing.Tag = name
		if err := repos.Tags.Update(ctx, existing); err != nil {
			return duplicate(name, err)
		}
		tag = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tag updated", slog.Uint64("tag_id", uint64(id)), slog.String("tag", name))
	return tag, nil
}

// DeleteTag detaches the tag from every post and removes it. The posts stay.
// An unknown id is a no-op.
func (s *tagService) DeleteTag(ctx context.Context, id uint) (err error) {
	defer func() { metrics.RecordOperation("tag", "delete", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Tags.DetachAll(ctx, id); err != nil {
			return fmt.Errorf("detach tag %d: %w", id, err)
		}
		if err := repos.Tags.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete tag %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("tag deleted", slog.Uint64("tag_id", uint64(id)))
	return nil
}

// ensureNameFree fails with ErrTagExists when another tag than self already
// uses name.
func ensureNameFree(ctx context.Context, tags repository.TagRepository, name string, self uint) error {
	found, err := tags.FindByNames(ctx, []string{name})
	if err != nil {
		return fmt.Errorf("find tags: %w", err)
	}
	for _, t := range found {
		if t.ID != self {
			return fmt.Errorf("%w: %q", apperrors.ErrTagExists, name)
		}
	}
	return nil
}

func duplicate(name string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %q", apperrors.ErrTagExists, name)
	}
	return fmt.Errorf("save tag %q: %w", name, err)
}
