package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "blogly/internal/errors"
	"blogly/internal/model"
)

func TestTagService_CreateTag(t *testing.T) {
	tests := []struct {
		name          string
		tagName       string
		setupMock     func(*MockTagRepository)
		expectedError error
	}{
		{
			name:    "new name",
			tagName: "go",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByNames", mock.Anything, []string{"go"}).Return([]model.Tag{}, nil)
				m.On("Create", mock.Anything, mock.MatchedBy(func(t *model.Tag) bool { return t.Tag == "go" })).Return(nil)
			},
		},
		{
			name:    "taken name",
			tagName: "go",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByNames", mock.Anything, []string{"go"}).Return([]model.Tag{{ID: 1, Tag: "go"}}, nil)
			},
			expectedError: apperrors.ErrTagExists,
		},
		{
			name:    "race on unique index",
			tagName: "go",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByNames", mock.Anything, []string{"go"}).Return([]model.Tag{}, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Tag")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrTagExists,
		},
		{
			name:          "blank name",
			tagName:       "  ",
			setupMock:     func(m *MockTagRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			tt.setupMock(m.tags)

			svc := NewTagService(m.tags, m.uow, discardLogger())
			tag, err := svc.CreateTag(context.Background(), tt.tagName)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, tag)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.tagName, tag.Tag)
			}
			m.tags.AssertExpectations(t)
		})
	}
}

func TestTagService_UpdateTag(t *testing.T) {
	tests := []struct {
		name          string
		newName       string
		setupMock     func(*MockTagRepository)
		expectedError error
	}{
		{
			name:    "rename",
			newName: "golang",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.Tag{ID: 2, Tag: "go"}, nil)
				m.On("FindByNames", mock.Anything, []string{"golang"}).Return([]model.Tag{}, nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(t *model.Tag) bool { return t.Tag == "golang" })).Return(nil)
			},
		},
		{
			name:    "same name on itself",
			newName: "go",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.Tag{ID: 2, Tag: "go"}, nil)
				m.On("FindByNames", mock.Anything, []string{"go"}).Return([]model.Tag{{ID: 2, Tag: "go"}}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Tag")).Return(nil)
			},
		},
		{
			name:    "name of another tag",
			newName: "web",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(&model.Tag{ID: 2, Tag: "go"}, nil)
				m.On("FindByNames", mock.Anything, []string{"web"}).Return([]model.Tag{{ID: 5, Tag: "web"}}, nil)
			},
			expectedError: apperrors.ErrTagExists,
		},
		{
			name:    "unknown tag",
			newName: "web",
			setupMock: func(m *MockTagRepository) {
				m.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMocks()
			tt.setupMock(m.tags)

			svc := NewTagService(m.tags, m.uow, discardLogger())
			tag, err := svc.UpdateTag(context.Background(), 2, tt.newName)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, tag)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.newName, tag.Tag)
			}
			m.tags.AssertExpectations(t)
		})
	}
}

func TestTagService_DeleteTag_Detaches(t *testing.T) {
	m := newMocks()
	m.tags.On("DetachAll", mock.Anything, uint(2)).Return(nil)
	m.tags.On("DeleteByID", mock.Anything, uint(2)).Return(nil)

	svc := NewTagService(m.tags, m.uow, discardLogger())
	assert.NoError(t, svc.DeleteTag(context.Background(), 2))

	m.tags.AssertExpectations(t)
	m.posts.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestTagService_GetTag_NotFound(t *testing.T) {
	m := newMocks()
	m.tags.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewTagService(m.tags, m.uow, discardLogger())
	_, err := svc.GetTag(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
