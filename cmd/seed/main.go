package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"blogly/internal/config"
	"blogly/internal/db"
	"blogly/internal/logger"
	"blogly/internal/repository"
	"blogly/internal/service"
)

const (
	fileFlag   = "file"
	driverFlag = "driver"
	dsnFlag    = "dsn"
)

var seedFlags = map[string]cobraflags.Flag{
	fileFlag: &cobraflags.StringFlag{
		Name:  fileFlag,
		Value: "",
		Usage: "JSON fixture to load. If empty, the built-in sample data is used",
	},
	driverFlag: &cobraflags.StringFlag{
		Name:  driverFlag,
		Value: "",
		Usage: "Database driver (mysql, postgres, sqlite). Overrides DATABASE_DRIVER",
	},
	dsnFlag: &cobraflags.StringFlag{
		Name:  dsnFlag,
		Value: "",
		Usage: "Database DSN. Overrides DATABASE_DSN",
	},
}

func newSeedCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample users, tags and posts",
		Long: `Create the schema and load sample users, tags and posts.

Data goes through the same services as the web forms, so posts only get
tags that resolve by exact name.

Examples:
  seed                          # load the built-in sample data
  seed --reset                  # drop all tables first
  seed --file ./fixtures.json   # load a custom fixture`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, reset)
		},
	}

	cobraflags.RegisterMap(cmd, seedFlags)
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop all tables before creating the schema")
	return cmd
}

func run(cmd *cobra.Command, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if driver := seedFlags[driverFlag].GetString(); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := seedFlags[dsnFlag].GetString(); dsn != "" {
		cfg.Database.DSN = dsn
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	fixture, err := loadFixture(seedFlags[fileFlag].GetString())
	if err != nil {
		return err
	}

	gormDB, err := db.Open(db.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Echo:   cfg.Database.Echo,
		Logger: log,
	})
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(gormDB, reset || cfg.Database.Reset, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	uow := repository.NewUnitOfWork(gormDB)
	s := &seeder{
		users: service.NewUserService(repository.NewUserRepository(gormDB), uow, log),
		posts: service.NewPostService(repository.NewPostRepository(gormDB), uow, log),
		tags:  service.NewTagService(repository.NewTagRepository(gormDB), uow, log),
		log:   log,
	}

	res, err := s.seed(cmd.Context(), fixture)
	if err != nil {
		return err
	}

	log.Info("seed completed",
		slog.Int("tags_created", res.Tags),
		slog.Int("tags_skipped", res.TagsSkipped),
		slog.Int("users_created", res.Users),
		slog.Int("posts_created", res.Posts),
	)
	return nil
}

func main() {
	if err := newSeedCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
