package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "blogly/internal/errors"
	"blogly/internal/metrics"
	"blogly/internal/model"
	"blogly/internal/repository"
)

// RecentPostsLimit is how many posts the home page shows.
const RecentPostsLimit = 5

// PostInput carries the fields of the new and edit post forms.
type PostInput struct {
	Title    string
	Content  string
	TagNames []string
}

// PostService exposes post operations.
type PostService interface {
	CreatePost(ctx context.Context, userID uint, input PostInput) (*model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	ListRecentPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, id uint, input PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

type postService struct {
	repo repository.PostRepository
	uow  repository.UnitOfWork
	log  *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, uow repository.UnitOfWork, log *slog.Logger) PostService {
	return &postService{repo: repo, uow: uow, log: log}
}

// CreatePost stores a post under userID and attaches the named tags. Either
// everything is written or nothing is.
func (s *postService) CreatePost(ctx context.Context, userID uint, input PostInput) (post *model.Post, err error) {
	defer func() { metrics.RecordOperation("post", "create", err) }()

	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users.FindByID(ctx, userID); err != nil {
			return notFound("user", userID, err)
		}

		tagIDs, err := resolveTags(ctx, repos.Tags, input.TagNames)
		if err != nil {
			return err
		}

		post = &model.Post{
			Title:   input.Title,
			Content: input.Content,
			UserID:  userID,
		}
		if err := repos.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		if err := repos.Posts.ReplaceTags(ctx, post.ID, tagIDs); err != nil {
			return fmt.Errorf("tag post %d: %w", post.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("tags", len(input.TagNames)))
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("post", id, err)
	}
	return post, nil
}

func (s *postService) ListRecentPosts(ctx context.Context) ([]model.Post, error) {
	return s.repo.ListRecent(ctx, RecentPostsLimit)
}

// UpdatePost overwrites title and content when non-empty and always replaces
// the tag set with input.TagNames.
func (s *postService) UpdatePost(ctx context.Context, id uint, input PostInput) (post *model.Post, err error) {
	defer func() { metrics.RecordOperation("post", "update", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Posts.FindByID(ctx, id)
		if err != nil {
			return notFound("post", id, err)
		}

		if input.Title != "" {
			existing.Title = input.Title
		}
		if input.Content != "" {
			existing.Content = input.Content
		}

		tagIDs, err := resolveTags(ctx, repos.Tags, input.TagNames)
		if err != nil {
			return err
		}

		if err := repos.Posts.UpdateContent(ctx, existing); err != nil {
			return fmt.Errorf("update post %d: %w", id, err)
		}
		if err := repos.Posts.ReplaceTags(ctx, id, tagIDs); err != nil {
			return fmt.Errorf("tag post %d: %w", id, err)
		}
		post = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("post updated", slog.Uint64("post_id", uint64(id)))
	return post, nil
}

// DeletePost removes the post and its tag links. An unknown id is a no-op.
func (s *postService) DeletePost(ctx context.Context, id uint) (err error) {
	defer func() { metrics.RecordOperation("post", "delete", err) }()

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Posts.ReplaceTags(ctx, id, nil); err != nil {
			return fmt.Errorf("detach tags of post %d: %w", id, err)
		}
		if err := repos.Posts.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete post %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("post deleted", slog.Uint64("post_id", uint64(id)))
	return nil
}

// resolveTags maps every distinct, non-blank name to exactly one existing tag.
// The returned ids follow the order of first appearance in names.
func resolveTags(ctx context.Context, tags repository.TagRepository, names []string) ([]uint, error) {
	wanted := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		wanted = append(wanted, name)
	}
	if len(wanted) == 0 {
		return nil, nil
	}

	found, err := tags.FindByNames(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}

	byName := make(map[string][]uint, len(found))
	for _, t := range found {
		byName[t.Tag] = append(byName[t.Tag], t.ID)
	}

	ids := make([]uint, 0, len(wanted))
	for _, name := range wanted {
		matches := byName[name]
		if len(matches) != 1 {
			return nil, fmt.Errorf("%w: %q matched %d tags", apperrors.ErrTagNotResolved, name, len(matches))
		}
		ids = append(ids, matches[0])
	}
	return ids, nil
}
