package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogly/docs"
	"blogly/internal/config"
	"blogly/internal/db"
	"blogly/internal/handler"
	"blogly/internal/logger"
	"blogly/internal/repository"
	"blogly/internal/router"
	"blogly/internal/service"
	"blogly/internal/view"
)

const shutdownTimeout = 10 * time.Second

// @title Blogly
// @version 1.0
// @description Multi-user blog with users, posts and tags served as HTML forms.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(log)

	gormDB, err := db.Open(db.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Echo:   cfg.Database.Echo,
		Logger: log,
	})
	if err != nil {
		log.Error("database init", slog.Any("err", err))
		os.Exit(1)
	}

	if err := db.Migrate(gormDB, cfg.Database.Reset, log); err != nil {
		log.Error("auto-migrate", slog.Any("err", err))
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	uow := repository.NewUnitOfWork(gormDB)

	userService := service.NewUserService(userRepo, uow, log)
	postService := service.NewPostService(postRepo, uow, log)
	tagService := service.NewTagService(tagRepo, uow, log)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Error("parse templates", slog.Any("err", err))
		os.Exit(1)
	}

	e := router.New(log, renderer, router.Handlers{
		Users: handler.NewUserHandler(userService),
		Posts: handler.NewPostHandler(postService, userService, tagService),
		Tags:  handler.NewTagHandler(tagService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Info("swagger documentation available", slog.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info("starting server", slog.String("addr", addr), slog.String("driver", cfg.Database.Driver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
