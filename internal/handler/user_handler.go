package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"blogly/internal/errors"
	"blogly/internal/service"
	"blogly/internal/view"
)

// UserHandler bundles the user pages.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce html
// @Success 200 {string} string "users page"
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageUsers, view.UserListPage{Users: users})
}

// NewUserForm godoc
// @Summary Show the new user form
// @Tags users
// @Produce html
// @Success 200 {string} string "form"
// @Router /users/new [get]
func (h *UserHandler) NewUserForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageUserForm, view.UserFormPage{})
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce html
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param image_url formData string false "Image URL"
// @Success 302 {string} string "redirect to /users"
// @Failure 400 {string} string "form redisplayed with errors"
// @Router /users/new [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var form UserForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderNewForm(c, form, fieldErrors(err))
	}

	_, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		ImageURL:  form.ImageURL,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrValidation) {
			return h.renderNewForm(c, form, map[string]string{"form": err.Error()})
		}
		return httpError(err)
	}
	return redirect(c, "/users")
}

func (h *UserHandler) renderNewForm(c echo.Context, form UserForm, errs map[string]string) error {
	return c.Render(http.StatusBadRequest, view.PageUserForm, view.UserFormPage{
		Values: form.values(),
		Errors: errs,
	})
}

// GetUser godoc
// @Summary Show a user with their posts
// @Tags users
// @Produce html
// @Param id path int true "User ID"
// @Success 200 {string} string "user page"
// @Failure 404 {string} string "unknown user"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageUserDetail, view.UserDetailPage{User: user})
}

// EditUserForm godoc
// @Summary Show the edit user form
// @Tags users
// @Produce html
// @Param id path int true "User ID"
// @Success 200 {string} string "form"
// @Failure 404 {string} string "unknown user"
// @Router /users/{id}/edit [get]
func (h *UserHandler) EditUserForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Render(http.StatusOK, view.PageUserEdit, view.UserFormPage{User: user})
}

// UpdateUser godoc
// @Summary Update user; empty fields keep their value
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce html
// @Param id path int true "User ID"
// @Param first_name formData string false "First name"
// @Param last_name formData string false "Last name"
// @Param image_url formData string false "Image URL"
// @Success 302 {string} string "redirect to /users"
// @Failure 400 {string} string "form redisplayed with errors"
// @Failure 404 {string} string "unknown user"
// @Router /users/{id}/edit [post]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var form UserEditForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		user, getErr := h.svc.GetUser(c.Request().Context(), id)
		if getErr != nil {
			return httpError(getErr)
		}
		return c.Render(http.StatusBadRequest, view.PageUserEdit, view.UserFormPage{
			User:   user,
			Values: form.values(),
			Errors: fieldErrors(err),
		})
	}

	_, err = h.svc.UpdateUser(c.Request().Context(), id, service.UpdateUserInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		ImageURL:  form.ImageURL,
	})
	if err != nil {
		return httpError(err)
	}
	return redirect(c, "/users")
}

// DeleteUser godoc
// @Summary Delete user together with their posts
// @Tags users
// @Param id path int true "User ID"
// @Success 302 {string} string "redirect to /users"
// @Router /users/{id}/delete [post]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return redirect(c, "/users")
}
