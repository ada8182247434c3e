package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LeadsURL     string        `validate:"omitempty,url"`
	LeadsFile    string
	ImportDir    string `validate:"omitempty,dir"`
	SinkURL      string        `validate:"omitempty,url"`
	SinkSecret   string
	TaxonomyFile string
	Port         string        `validate:"required,numeric"`
	HTTPTimeout  time.Duration `validate:"gt=0"`
	LogLevel     slog.Level
	DisplayTZ    string `validate:"required,timezone"`
	TopCountries int    `validate:"min=1,max=24"`
}

// FromEnv loads an optional .env file and then reads the environment.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	top := 5
	if v, err := strconv.Atoi(os.Getenv("TOP_COUNTRIES")); err == nil {
		top = v
	}
	return Config{
		LeadsURL:     os.Getenv("LEADS_API_URL"),
		LeadsFile:    os.Getenv("LEADS_FILE"),
		ImportDir:    os.Getenv("IMPORT_DIR"),
		SinkURL:      os.Getenv("SINK_URL"),
		SinkSecret:   os.Getenv("SINK_SECRET"),
		TaxonomyFile: os.Getenv("STATUS_TAXONOMY_FILE"),
		Port:         envOr("PORT", "8080"),
		HTTPTimeout:  to,
		LogLevel:     lvl,
		DisplayTZ:    envOr("DISPLAY_TZ", "UTC"),
		TopCountries: top,
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location is the display timezone used for day and hour bucketing.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
