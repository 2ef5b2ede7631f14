package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings are process-level options read from the environment.
type Settings struct {
	LogLevel    string
	Environment string
	OutputDir   string
	Precision   int
}

// LoadSettings reads settings from environment variables, first loading the
// given .env files (or ./.env when none are named). A missing ./.env is
// ignored; a named file that is missing or malformed is an error. Variables
// already set in the environment win.
func LoadSettings(envFiles ...string) (*Settings, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	s := &Settings{
		LogLevel:    strings.ToLower(os.Getenv("FORECAST_LOG_LEVEL")),
		Environment: strings.ToLower(os.Getenv("FORECAST_ENV")),
		OutputDir:   os.Getenv("FORECAST_OUTPUT_DIR"),
		Precision:   2,
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}

	if raw := os.Getenv("FORECAST_PRECISION"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FORECAST_PRECISION: %w", err)
		}
		if p < 0 || p > MaxPrecision {
			return nil, fmt.Errorf("invalid FORECAST_PRECISION: must be between 0 and %d, got %d", MaxPrecision, p)
		}
		s.Precision = p
	}
	return s, nil
}
