// Package config loads CLI configuration from config files, .env
// files and the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for all CLI file access. Tests swap in
// an in-memory filesystem.
var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
	SchemaPath  string
}

// Load resolves configuration from .quill.yaml (current directory,
// home, or ~/.config/quill), QUILL_-prefixed environment variables and
// .env files. Later sources override earlier ones.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".quill")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "quill"))

	viper.SetEnvPrefix("QUILL")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "postgresql")
	viper.SetDefault("schema_path", "quill.schema")

	// Missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = viper.GetString("database_url")
	}

	return &Config{
		Provider:    viper.GetString("provider"),
		DatabaseURL: databaseURL,
		SchemaPath:  viper.GetString("schema_path"),
	}, nil
}
