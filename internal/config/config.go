// Package config resolves the notes file location and loads optional settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/dirnotes/internal/notes"
)

// Environment variables consulted during resolution.
const (
	EnvNotesFile  = "NOTES_FILE"
	EnvConfigFile = "NOTES_CONFIG"
)

// Resolution sources reported by ResolveNotesFile.
const (
	SourceFlag    = "flag"
	SourceEnv     = "env"
	SourceDefault = "default"
)

// Log levels accepted in the settings file.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// Settings is the optional per-user configuration.
type Settings struct {
	ResolveSymlinks bool   `yaml:"resolve_symlinks"`
	RedactSecrets   bool   `yaml:"redact_secrets"`
	IgnoreFile      string `yaml:"ignore_file"` // extra redaction patterns
	LogLevel        string `yaml:"log_level"`
}

// Default returns Settings that keep the stored data exactly as typed.
func Default() *Settings {
	return &Settings{
		LogLevel: LogLevelWarn,
	}
}

// Validate checks the settings values.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.LogLevel, validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
	)
}

// SlogLevel maps LogLevel onto slog.
func (s *Settings) SlogLevel() slog.Level {
	switch s.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// IgnorePath returns the redaction pattern file for settings loaded from
// configPath. Relative paths are taken from the settings file's directory.
func (s *Settings) IgnorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if s.IgnoreFile == "" {
		return filepath.Join(dir, ".notesignore")
	}
	p := expandHome(s.IgnoreFile)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Load reads settings from path.
// If the file does not exist it returns Default() with no error.
// Missing keys retain their default values.
func Load(path string) (*Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if v, ok := raw["resolve_symlinks"].(bool); ok {
		cfg.ResolveSymlinks = v
	}
	if v, ok := raw["redact_secrets"].(bool); ok {
		cfg.RedactSecrets = v
	}
	if v, ok := raw["ignore_file"].(string); ok {
		cfg.IgnoreFile = strings.TrimSpace(v)
	}
	if v, ok := raw["log_level"].(string); ok && v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return cfg, nil
}

// ---------------------------------------------------------------------------
// Path resolution
// ---------------------------------------------------------------------------

// homeDir returns the user's home directory or an environment error.
func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &notes.EnvironmentError{Op: "resolve home directory", Err: err}
	}
	return home, nil
}

// expandHome expands a leading ~/ when the home directory is known.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// normalizePath expands ~ and environment variables and makes path absolute.
func normalizePath(path string) (string, error) {
	p, err := filepath.Abs(os.ExpandEnv(expandHome(path)))
	if err != nil {
		return "", &notes.EnvironmentError{Op: "resolve " + path, Err: err}
	}
	return p, nil
}

// ResolveNotesFile returns the notes file path and the source of the resolution.
// Priority: override (flag) → NOTES_FILE env → $HOME/.notes.json.
// An unresolvable home directory is an environment error.
func ResolveNotesFile(override string) (path, source string, err error) {
	if override != "" {
		p, err := normalizePath(override)
		return p, SourceFlag, err
	}
	if env := os.Getenv(EnvNotesFile); env != "" {
		p, err := normalizePath(env)
		return p, SourceEnv, err
	}
	home, err := homeDir()
	if err != nil {
		return "", "", err
	}
	return filepath.Join(home, notes.FileName), SourceDefault, nil
}

// ResolveConfigFile returns the settings file path.
// Priority: override (flag) → NOTES_CONFIG env → $HOME/.config/dirnotes/config.yaml.
func ResolveConfigFile(override string) (string, error) {
	if override != "" {
		return normalizePath(override)
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return normalizePath(env)
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dirnotes", "config.yaml"), nil
}
