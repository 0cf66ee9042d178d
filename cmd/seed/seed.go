package main

import (
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"

	"blogly/internal/errors"
	"blogly/internal/service"
)

//go:embed data.json
var defaultFixture []byte

// Fixture is the sample data loaded by the seed command.
type Fixture struct {
	Tags  []string      `json:"tags"`
	Users []FixtureUser `json:"users"`
}

type FixtureUser struct {
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	ImageURL  string        `json:"image_url"`
	Posts     []FixturePost `json:"posts"`
}

type FixturePost struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Result counts what a seed run created.
type Result struct {
	Tags        int
	TagsSkipped int
	Users       int
	Posts       int
}

// loadFixture reads path, or the embedded fixture when path is empty.
func loadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

type seeder struct {
	users service.UserService
	posts service.PostService
	tags  service.TagService
	log   *slog.Logger
}

// seed creates tags first so posts can resolve them by name. Tags that
// already exist are skipped; anything else aborts the run.
func (s *seeder) seed(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	for _, name := range f.Tags {
		if _, err := s.tags.CreateTag(ctx, name); err != nil {
			if stderrors.Is(err, errors.ErrTagExists) {
				s.log.Info("tag already present", slog.String("tag", name))
				res.TagsSkipped++
				continue
			}
			return res, fmt.Errorf("tag %q: %w", name, err)
		}
		res.Tags++
	}

	for _, fu := range f.Users {
		user, err := s.users.CreateUser(ctx, service.CreateUserInput{
			FirstName: fu.FirstName,
			LastName:  fu.LastName,
			ImageURL:  fu.ImageURL,
		})
		if err != nil {
			return res, fmt.Errorf("user %s %s: %w", fu.FirstName, fu.LastName, err)
		}
		res.Users++

		for _, fp := range fu.Posts {
			if _, err := s.posts.CreatePost(ctx, user.ID, service.PostInput{
				Title:    fp.Title,
				Content:  fp.Content,
				TagNames: fp.Tags,
			}); err != nil {
				return res, fmt.Errorf("post %q: %w", fp.Title, err)
			}
			res.Posts++
		}
	}

	return res, nil
}
