package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"blogly/internal/errors"
	"blogly/internal/model"
	"blogly/internal/service"
	"blogly/internal/view"
)

// TagHandler handles tag endpoints.
type TagHandler struct {
	svc service.TagService
}

// NewTagHandler creates a new tag handler.
func NewTagHandler(svc service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce html
// @Success 200 {string} string "tags page"
// @Router /tags [get]
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.svc.ListTags(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageTags, view.TagListPage{Tags: tags})
}

// NewTagForm godoc
// @Summary Show the new tag form
// @Tags tags
// @Produce html
// @Success 200 {string} string "form"
// @Router /tags/new [get]
func (h *TagHandler) NewTagForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageTagForm, view.TagFormPage{})
}

// CreateTag godoc
// @Summary Create tag
// @Tags tags
// @Accept x-www-form-urlencoded
// @Produce html
// @Param tag_name formData string true "Tag name"
// @Success 302 {string} string "redirect to /tags"
// @Failure 400 {string} string "form redisplayed with errors"
// @Failure 409 {string} string "name already taken"
// @Router /tags/new [post]
func (h *TagHandler) CreateTag(c echo.Context) error {
	var form TagForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderForm(c, http.StatusBadRequest, view.PageTagForm, nil, form, fieldErrors(err))
	}

	if _, err := h.svc.CreateTag(c.Request().Context(), form.TagName); err != nil {
		if status, ok := formErrorStatus(err); ok {
			return h.renderForm(c, status, view.PageTagForm, nil, form, map[string]string{"tag_name": err.Error()})
		}
		return httpError(err)
	}
	return redirect(c, "/tags")
}

// GetTag godoc
// @Summary Show a tag with its posts
// @Tags tags
// @Produce html
// @Param id path int true "Tag ID"
// @Success 200 {string} string "tag page"
// @Failure 404 {string} string "unknown tag"
// @Router /tags/{id} [get]
func (h *TagHandler) GetTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	tag, err := h.svc.GetTag(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageTagDetail, view.TagDetailPage{Tag: tag})
}

// EditTagForm godoc
// @Summary Show the edit tag form
// @Tags tags
// @Produce html
// @Param id path int true "Tag ID"
// @Success 200 {string} string "form"
// @Failure 404 {string} string "unknown tag"
// @Router /tags/{id}/edit [get]
func (h *TagHandler) EditTagForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	tag, err := h.svc.GetTag(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageTagEdit, view.TagFormPage{Tag: tag})
}

// UpdateTag godoc
// @Summary Rename tag
// @Tags tags
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "Tag ID"
// @Param tag_name formData string true "Tag name"
// @Success 302 {string} string "redirect to /tags"
// @Failure 400 {string} string "form redisplayed with errors"
// @Failure 404 {string} string "unknown tag"
// @Failure 409 {string} string "name already taken"
// @Router /tags/{id}/edit [post]
func (h *TagHandler) UpdateTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var form TagForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		tag, getErr := h.svc.GetTag(c.Request().Context(), id)
		if getErr != nil {
			return httpError(getErr)
		}
		return h.renderForm(c, http.StatusBadRequest, view.PageTagEdit, tag, form, fieldErrors(err))
	}

	if _, err := h.svc.UpdateTag(c.Request().Context(), id, form.TagName); err != nil {
		if status, ok := formErrorStatus(err); ok {
			tag, getErr := h.svc.GetTag(c.Request().Context(), id)
			if getErr != nil {
				return httpError(getErr)
			}
			return h.renderForm(c, status, view.PageTagEdit, tag, form, map[string]string{"tag_name": err.Error()})
		}
		return httpError(err)
	}
	return redirect(c, "/tags")
}

// DeleteTag godoc
// @Summary Delete tag; posts carrying it are kept
// @Tags tags
// @Param id path int true "Tag ID"
// @Success 302 {string} string "redirect to /tags"
// @Router /tags/{id}/delete [post]
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTag(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return redirect(c, "/tags")
}

func (h *TagHandler) renderForm(c echo.Context, status int, page string, tag *model.Tag, form TagForm, errs map[string]string) error {
	return c.Render(status, page, view.TagFormPage{
		Tag:    tag,
		Values: form.values(),
		Errors: errs,
	})
}

// formErrorStatus reports whether err should redisplay the tag form, and
// with which status.
func formErrorStatus(err error) (int, bool) {
	switch {
	case stderrors.Is(err, errors.ErrTagExists):
		return http.StatusConflict, true
	case stderrors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest, true
	default:
		return 0, false
	}
}
