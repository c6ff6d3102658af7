package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	ioutils "github.com/handiism/cmcol/internal/io"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. CMCOL_JOBS=4.
const EnvPrefix = "CMCOL"

// Log levels accepted by Settings.LogLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ErrInvalidSettings is returned by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	Output        string `mapstructure:"output" json:"output"` // "-" is stdout
	Verbose       bool   `mapstructure:"verbose" json:"verbose"`
	RelativeNames bool   `mapstructure:"relative_names" json:"relative_names"`

	// Scan settings
	Jobs       int      `mapstructure:"jobs" json:"jobs"`
	Exclude    []string `mapstructure:"exclude" json:"exclude"`
	IgnoreFile string   `mapstructure:"ignore_file" json:"ignore_file"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// Remembered by the interactive front end
	LastInput string `mapstructure:"last_input" json:"last_input"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Output:        ioutils.StdoutName,
		Verbose:       false,
		RelativeNames: false,

		Jobs:       1,
		Exclude:    []string{},
		IgnoreFile: "",

		LogLevel: LogLevelWarn,

		LastInput: ".",
	}
}

// DefaultPath returns the per-user settings file, e.g.
// ~/.config/cmcol/config.json on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "cmcol", "config.json")
}

// newViper returns a viper instance seeded with defaults and bound to the
// CMCOL_ environment.
func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("output", d.Output)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("relative_names", d.RelativeNames)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("ignore_file", d.IgnoreFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("last_input", d.LastInput)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// setConfigFile points v at path, defaulting to JSON when the file name has
// no extension.
func setConfigFile(v *viper.Viper, path string) {
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
}

// Load reads settings from a JSON, YAML or TOML file and applies CMCOL_
// environment overrides.
//
// Parameters:
//   - path: Settings file; "" or a missing file means defaults
//
// Example:
//
//	settings, err := config.Load(config.DefaultPath())
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			setConfigFile(v, path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if settings.Exclude == nil {
		settings.Exclude = []string{}
	}

	return settings, nil
}

// Save writes settings to path. The format follows the file extension
// (JSON when there is none).
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	v := viper.New()
	v.Set("output", s.Output)
	v.Set("verbose", s.Verbose)
	v.Set("relative_names", s.RelativeNames)
	v.Set("jobs", s.Jobs)
	v.Set("exclude", s.Exclude)
	v.Set("ignore_file", s.IgnoreFile)
	v.Set("log_level", s.LogLevel)
	v.Set("last_input", s.LastInput)

	setConfigFile(v, path)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports settings that cannot drive a run.
func (s *Settings) Validate() error {
	if s.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidSettings, s.Jobs)
	}

	switch s.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, s.LogLevel)
	}

	if s.Output == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalidSettings)
	}

	return nil
}
