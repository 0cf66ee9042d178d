package view

import "blogly/internal/model"

// HomePage lists the most recent posts.
type HomePage struct {
	Posts []model.Post
}

type UserListPage struct {
	Users []model.User
}

type UserDetailPage struct {
	User *model.User
}

// UserFormPage backs both the new and the edit user form. User is nil on
// the new form.
type UserFormPage struct {
	User   *model.User
	Values map[string]string
	Errors map[string]string
}

// PostFormPage backs both the new and the edit post form.
type PostFormPage struct {
	User     *model.User
	Post     *model.Post
	Tags     []model.Tag
	Selected map[string]bool
	Values   map[string]string
	Errors   map[string]string
}

type PostDetailPage struct {
	Post *model.Post
}

type TagListPage struct {
	Tags []model.Tag
}

type TagDetailPage struct {
	Tag *model.Tag
}

// TagFormPage backs both the new and the edit tag form.
type TagFormPage struct {
	Tag    *model.Tag
	Values map[string]string
	Errors map[string]string
}

type ErrorPage struct {
	Code    int
	Message string
}
