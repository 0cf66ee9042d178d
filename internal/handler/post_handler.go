package handler

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/service"
	"blogly/internal/view"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	posts service.PostService
	users service.UserService
	tags  service.TagService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService, users service.UserService, tags service.TagService) *PostHandler {
	return &PostHandler{posts: posts, users: users, tags: tags}
}

// Home godoc
// @Summary Show the most recent posts
// @Tags posts
// @Produce html
// @Success 200 {string} string "home page"
// @Router / [get]
func (h *PostHandler) Home(c echo.Context) error {
	posts, err := h.posts.ListRecentPosts(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageHome, view.HomePage{Posts: posts})
}

// NewPostForm godoc
// @Summary Show the new post form for a user
// @Tags posts
// @Produce html
// @Param id path int true "User ID"
// @Success 200 {string} string "form"
// @Failure 404 {string} string "unknown user"
// @Router /users/{id}/posts/new [get]
func (h *PostHandler) NewPostForm(c echo.Context) error {
	userID, err := parseID(c)
	if err != nil {
		return err
	}
	page, err := h.newPostPage(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PagePostForm, page)
}

// CreatePost godoc
// @Summary Create a post under a user
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "User ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param tag_keys formData []string false "Tag names" collectionFormat(multi)
// @Success 302 {string} string "redirect to /users/{id}"
// @Failure 400 {string} string "form redisplayed with errors"
// @Failure 404 {string} string "unknown user"
// @Router /users/{id}/posts/new [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := parseID(c)
	if err != nil {
		return err
	}

	var form PostForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.redisplayNew(c, userID, form, fieldErrors(err))
	}

	_, err = h.posts.CreatePost(c.Request().Context(), userID, service.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		TagNames: form.TagKeys,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrTagNotResolved) || stderrors.Is(err, errors.ErrValidation) {
			return h.redisplayNew(c, userID, form, map[string]string{"form": err.Error()})
		}
		return httpError(err)
	}
	return redirect(c, fmt.Sprintf("/users/%d", userID))
}

func (h *PostHandler) newPostPage(ctx context.Context, userID uint) (view.PostFormPage, error) {
	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		return view.PostFormPage{}, err
	}
	tags, err := h.tags.ListTags(ctx)
	if err != nil {
		return view.PostFormPage{}, err
	}
	return view.PostFormPage{User: user, Tags: tags}, nil
}

func (h *PostHandler) redisplayNew(c echo.Context, userID uint, form PostForm, errs map[string]string) error {
	page, err := h.newPostPage(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	page.Values = form.values()
	page.Selected = selection(form.TagKeys)
	page.Errors = errs
	return c.Render(http.StatusBadRequest, view.PagePostForm, page)
}

// GetPost godoc
// @Summary Show a post
// @Tags posts
// @Produce html
// @Param id path int true "Post ID"
// @Success 200 {string} string "post page"
// @Failure 404 {string} string "unknown post"
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := h.posts.GetPost(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PagePostDetail, view.PostDetailPage{Post: post})
}

// EditPostForm godoc
// @Summary Show the edit post form
// @Tags posts
// @Produce html
// @Param id path int true "Post ID"
// @Success 200 {string} string "form"
// @Failure 404 {string} string "unknown post"
// @Router /posts/{id}/edit [get]
func (h *PostHandler) EditPostForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	page, err := h.editPostPage(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PagePostEdit, page)
}

// UpdatePost godoc
// @Summary Update a post and replace its tags
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Post ID"
// @Param title formData string false "Title"
// @Param content formData string false "Content"
// @Param tag_keys formData []string false "Tag names" collectionFormat(multi)
// @Success 302 {string} string "redirect to /posts/{id}"
// @Failure 400 {string} string "form redisplayed with errors"
// @Failure 404 {string} string "unknown post"
// @Router /posts/{id}/edit [post]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var form PostEditForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.redisplayEdit(c, id, form, fieldErrors(err))
	}

	_, err = h.posts.UpdatePost(c.Request().Context(), id, service.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		TagNames: form.TagKeys,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrTagNotResolved) {
			return h.redisplayEdit(c, id, form, map[string]string{"form": err.Error()})
		}
		return httpError(err)
	}
	return redirect(c, fmt.Sprintf("/posts/%d", id))
}

func (h *PostHandler) editPostPage(ctx context.Context, id uint) (view.PostFormPage, error) {
	post, err := h.posts.GetPost(ctx, id)
	if err != nil {
		return view.PostFormPage{}, err
	}
	tags, err := h.tags.ListTags(ctx)
	if err != nil {
		return view.PostFormPage{}, err
	}
	return view.PostFormPage{
		Post:     post,
		Tags:     tags,
		Selected: selection(tagNames(post.Tags)),
	}, nil
}

func (h *PostHandler) redisplayEdit(c echo.Context, id uint, form PostEditForm, errs map[string]string) error {
	page, err := h.editPostPage(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	page.Values = form.values()
	page.Selected = selection(form.TagKeys)
	page.Errors = errs
	return c.Render(http.StatusBadRequest, view.PagePostEdit, page)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 302 {string} string "redirect to /users"
// @Router /posts/{id}/delete [post]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return redirect(c, "/users")
}

func tagNames(tags []model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names
}
