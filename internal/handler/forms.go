package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// UserForm is the new user form.
type UserForm struct {
	FirstName string `form:"first_name" validate:"required,max=30"`
	LastName  string `form:"last_name" validate:"required,max=30"`
	ImageURL  string `form:"image_url" validate:"omitempty,max=150"`
}

func (f UserForm) values() map[string]string {
	return map[string]string{"first_name": f.FirstName, "last_name": f.LastName, "image_url": f.ImageURL}
}

// UserEditForm is the edit user form. Empty fields keep the stored value.
type UserEditForm struct {
	FirstName string `form:"first_name" validate:"omitempty,max=30"`
	LastName  string `form:"last_name" validate:"omitempty,max=30"`
	ImageURL  string `form:"image_url" validate:"omitempty,max=150"`
}

func (f UserEditForm) values() map[string]string {
	return map[string]string{"first_name": f.FirstName, "last_name": f.LastName, "image_url": f.ImageURL}
}

// PostForm is the new post form. TagKeys holds tag names.
type PostForm struct {
	Title   string   `form:"title" validate:"required,max=255"`
	Content string   `form:"content" validate:"required"`
	TagKeys []string `form:"tag_keys"`
}

func (f PostForm) values() map[string]string {
	return map[string]string{"title": f.Title, "content": f.Content}
}

// PostEditForm is the edit post form. Empty title or content keeps the
// stored value; TagKeys always replaces the tag set.
type PostEditForm struct {
	Title   string   `form:"title" validate:"omitempty,max=255"`
	Content string   `form:"content"`
	TagKeys []string `form:"tag_keys"`
}

func (f PostEditForm) values() map[string]string {
	return map[string]string{"title": f.Title, "content": f.Content}
}

// TagForm backs both the new and the edit tag form.
type TagForm struct {
	TagName string `form:"tag_name" validate:"required,max=100"`
}

func (f TagForm) values() map[string]string {
	return map[string]string{"tag_name": f.TagName}
}

// fieldErrors flattens validator errors into form field -> message.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return out
}

func selection(names []string) map[string]bool {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[name] = true
	}
	return selected
}
