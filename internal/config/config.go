package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/phambaophuc/datemark/internal/models"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const envPrefix = "DATEMARK_"

type Config struct {
	Watermark models.WatermarkRequest
	Fonts     FontConfig
	Log       LogConfig
}

type FontConfig struct {
	// Paths are font files tried before the system and built-in fonts.
	Paths []string
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

func Default() Config {
	return Config{
		Watermark: models.WatermarkRequest{
			FontSize: 36,
			Color:    models.ColorWhite,
			Position: models.PositionBottomRight,
			Quality:  95,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyEnvConfig applies DATEMARK_* variables, skipping values whose flag was set explicitly.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("font-size", getEnv("FONT_SIZE", ""), &cfg.Watermark.FontSize); err != nil {
		return err
	}
	if err := s.setIntFromString("quality", getEnv("QUALITY", ""), &cfg.Watermark.Quality); err != nil {
		return err
	}
	s.setString("color", getEnv("COLOR", ""), &cfg.Watermark.Color)
	s.setString("position", getEnv("POSITION", ""), &cfg.Watermark.Position)
	s.setString("log-level", getEnv("LOG_LEVEL", ""), &cfg.Log.Level)
	s.setStrings("font", getEnvAsList("FONT"), &cfg.Fonts.Paths)

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	value := getEnv(key, "")
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range filepath.SplitList(value) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// configSetter applies values only when the matching flag has not been set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}
