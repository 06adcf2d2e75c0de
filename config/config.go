// Package config reads runtime settings from the environment, after
// merging any .env files.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the TUI settings.
type Config struct {
	AssetPath   string // MAPQUIZ_ASSET
	ScoreDB     string // MAPQUIZ_SCORE_DB; empty disables score keeping
	Labels      bool   // MAPQUIZ_LABELS
	SnapshotDir string // MAPQUIZ_SNAPSHOT_DIR
	FontPath    string // MAPQUIZ_FONT
	LogFile     string // LOG_FILE
}

const (
	DefaultAsset   = "data/regions.json"
	DefaultScoreDB = "mapquiz.db"
	DefaultLogFile = "mapquiz.log"
)

// Load merges the given .env files (".env" when none are named) into the
// process environment without overriding variables already set, then
// reads the configuration. Missing files are ignored.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() Config {
	c := Config{
		AssetPath:   env("MAPQUIZ_ASSET", DefaultAsset),
		ScoreDB:     env("MAPQUIZ_SCORE_DB", DefaultScoreDB),
		SnapshotDir: env("MAPQUIZ_SNAPSHOT_DIR", "."),
		FontPath:    os.Getenv("MAPQUIZ_FONT"),
		LogFile:     env("LOG_FILE", DefaultLogFile),
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("MAPQUIZ_LABELS"))); err == nil {
		c.Labels = v
	}
	if strings.EqualFold(os.Getenv("MAPQUIZ_SCORE_DB"), "off") {
		c.ScoreDB = ""
	}
	return c
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
