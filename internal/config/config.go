package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration.
type Config struct {
	Env         string
	ServerPort  string
	Database    Database
	LogLevel    string
	SwaggerHost string
}

// Database describes how to reach the relational store.
type Database struct {
	Driver string
	DSN    string
	Reset  bool
	Echo   bool
}

// Load builds Config from ./config/config.yaml (optional) and the environment,
// falling back to sensible defaults. DATABASE_DSN overrides database.dsn and so on.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "dev")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "blogly.db")
	v.SetDefault("database.reset", false)
	v.SetDefault("database.echo", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("swagger.host", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		Env:        v.GetString("env"),
		ServerPort: v.GetString("server.port"),
		Database: Database{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
			Reset:  v.GetBool("database.reset"),
			Echo:   v.GetBool("database.echo"),
		},
		LogLevel:    v.GetString("log.level"),
		SwaggerHost: v.GetString("swagger.host"),
	}, nil
}
