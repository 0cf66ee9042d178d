package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "blogly/internal/errors"
	"blogly/internal/handler"
	"blogly/internal/metrics"
	"blogly/internal/view"
)

// Handlers groups the page handlers served by the router.
type Handlers struct {
	Users *handler.UserHandler
	Posts *handler.PostHandler
	Tags  *handler.TagHandler
}

// New builds an echo instance with middleware, renderer and routes.
func New(log *slog.Logger, renderer echo.Renderer, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler(log)

	Register(e, log, h)
	return e
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log *slog.Logger, h Handlers) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/", h.Posts.Home)

	deleteMethods := []string{http.MethodGet, http.MethodPost}

	e.GET("/users", h.Users.ListUsers)
	e.GET("/users/new", h.Users.NewUserForm)
	e.POST("/users/new", h.Users.CreateUser)
	e.GET("/users/:id", h.Users.GetUser)
	e.GET("/users/:id/edit", h.Users.EditUserForm)
	e.POST("/users/:id/edit", h.Users.UpdateUser)
	e.Match(deleteMethods, "/users/:id/delete", h.Users.DeleteUser)

	e.GET("/users/:id/posts/new", h.Posts.NewPostForm)
	e.POST("/users/:id/posts/new", h.Posts.CreatePost)
	e.GET("/posts/:id", h.Posts.GetPost)
	e.GET("/posts/:id/edit", h.Posts.EditPostForm)
	e.POST("/posts/:id/edit", h.Posts.UpdatePost)
	e.Match(deleteMethods, "/posts/:id/delete", h.Posts.DeletePost)

	e.GET("/tags", h.Tags.ListTags)
	e.GET("/tags/new", h.Tags.NewTagForm)
	e.POST("/tags/new", h.Tags.CreateTag)
	e.GET("/tags/:id", h.Tags.GetTag)
	e.GET("/tags/:id/edit", h.Tags.EditTagForm)
	e.POST("/tags/:id/edit", h.Tags.UpdateTag)
	e.Match(deleteMethods, "/tags/:id/delete", h.Tags.DeleteTag)
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}

// errorHandler renders the error page for every failed request.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case apperrors.ErrorResponse:
				message = m.Error
			case string:
				message = m
			default:
				message = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed", slog.String("path", c.Request().URL.Path), slog.Any("err", err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.Render(code, view.PageError, view.ErrorPage{Code: code, Message: message})
		}
		if err != nil {
			log.Error("render error page", slog.Any("err", err))
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports field errors under their form names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
