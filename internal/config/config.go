// Package config loads and saves the calengine YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mike1ife/Calendar-Management-System-sub001/internal/model"
)

const (
	defaultTimezone = "America/New_York"
	defaultCalendar = "Default"
	defaultLogLevel = "info"
	defaultPrompt   = "> "

	defaultAutosaveFormat = "ics"
	defaultAutosaveFile   = "autosave.ics"
)

// AutosaveConfig describes a periodic export of the active calendar.
type AutosaveConfig struct {
	// Schedule is a cron-style schedule string (e.g. "*/15 * * * *").
	// Empty disables autosave.
	Schedule string `yaml:"schedule" json:"schedule"`
	// Format is any format accepted by the export command (csv, ical, cal).
	Format string `yaml:"format" json:"format"`
	// File is resolved against ExportDir when relative.
	File string `yaml:"file" json:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA zone of the calendar created at startup
	// (e.g. "America/New_York").
	Timezone string `yaml:"timezone" json:"timezone"`

	// DefaultCalendar is the name of the calendar created and activated at
	// startup.
	DefaultCalendar string `yaml:"default_calendar" json:"default_calendar"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// ExportDir is where relative export file names are written. Empty
	// means the working directory.
	ExportDir string `yaml:"export_dir" json:"export_dir"`

	// Prompt is printed before each line in interactive mode.
	Prompt string `yaml:"prompt" json:"prompt"`

	Autosave AutosaveConfig `yaml:"autosave" json:"autosave"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:        defaultTimezone,
		DefaultCalendar: defaultCalendar,
		LogLevel:        defaultLogLevel,
		ExportDir:       "",
		Prompt:          defaultPrompt,
		Autosave: AutosaveConfig{
			Format: defaultAutosaveFormat,
			File:   defaultAutosaveFile,
		},
	}
}

// DefaultPath returns the per-user config location,
// e.g. ~/.config/calengine/config.yaml on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "calengine.yaml"
	}
	return filepath.Join(dir, "calengine", "config.yaml")
}

// Normalize replaces empty or unknown values with their defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Timezone) == "" {
		c.Timezone = defaultTimezone
	}
	if strings.TrimSpace(c.DefaultCalendar) == "" {
		c.DefaultCalendar = defaultCalendar
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = defaultLogLevel
	}
	if c.Prompt == "" {
		c.Prompt = defaultPrompt
	}
	c.Autosave.Schedule = strings.TrimSpace(c.Autosave.Schedule)
	if c.Autosave.Format == "" {
		c.Autosave.Format = defaultAutosaveFormat
	}
	if c.Autosave.File == "" {
		c.Autosave.File = defaultAutosaveFile
	}
}

// Load reads the YAML config at path. A missing file is not an error: the
// defaults are written there (mode 0600) and returned, together with any
// error from writing them.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		return cfg, Save(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", model.ErrInvalidFormat, path, err)
	}
	cfg.Normalize()
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("%w: config %s: unknown timezone %q", model.ErrInvalidFormat, path, cfg.Timezone)
	}
	return cfg, nil
}

// Save normalizes cfg and replaces the file at path with it. Readers never
// see a partial file; the parent directory is created 0700.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := replaceFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}

// replaceFile writes data next to path and renames it into place.
func replaceFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".calengine-config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
