package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"blogly/internal/model"
)

// Migrate creates the schema. With reset set, existing tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	if reset {
		log.Info("database reset requested, dropping all tables")
		// Children first so foreign keys never dangle.
		tables := []interface{}{
			&model.PostTag{},
			&model.Post{},
			&model.Tag{},
			&model.User{},
		}
		for _, table := range tables {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Warn("failed to drop table (may not exist)", slog.String("error", err.Error()))
			}
		}
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Post{},
		&model.PostTag{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
