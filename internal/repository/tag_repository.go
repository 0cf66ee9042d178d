package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogly/internal/model"
)

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByNames(ctx context.Context, names []string) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	DeleteByID(ctx context.Context, id uint) error
	DetachAll(ctx context.Context, tagID uint) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tag).Error
}

func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tag).Error
}

// FindByID loads a tag with the posts that carry it, newest first.
func (r *tagRepository) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return db.Order("posts.created_at DESC").Order("posts.id DESC")
		}).
		First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByNames returns every tag whose name exactly matches one of names.
func (r *tagRepository) FindByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	var tags []model.Tag
	if len(names) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("tag IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("tag").Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteByID removes the tag row. A missing id is not an error.
func (r *tagRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Tag{}, id).Error
}

// DetachAll removes the tag from every post that carries it.
func (r *tagRepository) DetachAll(ctx context.Context, tagID uint) error {
	return r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&model.PostTag{}).Error
}
