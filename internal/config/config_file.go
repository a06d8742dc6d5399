package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a config file, TOML or YAML.
type FileConfig struct {
	FontSize int      `toml:"font_size" yaml:"font_size"`
	Color    string   `toml:"color" yaml:"color"`
	Position string   `toml:"position" yaml:"position"`
	Quality  int      `toml:"quality" yaml:"quality"`
	Fonts    []string `toml:"fonts" yaml:"fonts"`
	LogLevel string   `toml:"log_level" yaml:"log_level"`
}

// LoadFileConfig reads a config file, choosing the parser by extension.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fc, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fc, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc, nil
}

// ApplyFileConfig copies set file values into cfg unless the flag was given explicitly.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setInt("font-size", fc.FontSize, &cfg.Watermark.FontSize)
	s.setInt("quality", fc.Quality, &cfg.Watermark.Quality)
	s.setString("color", fc.Color, &cfg.Watermark.Color)
	s.setString("position", fc.Position, &cfg.Watermark.Position)
	s.setString("log-level", fc.LogLevel, &cfg.Log.Level)
	s.setStrings("font", fc.Fonts, &cfg.Fonts.Paths)
}
