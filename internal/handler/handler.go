package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"blogly/internal/errors"
)

// parseID reads the :id path parameter. Anything that is not a positive
// integer cannot match a row, so it is reported as not found.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, httpError(errors.ErrNotFound)
	}
	return uint(id), nil
}

// httpError converts a domain error into an echo HTTP error.
func httpError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusFound, to)
}
