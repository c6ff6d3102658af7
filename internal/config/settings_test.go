package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "-", s.Output)
	assert.Equal(t, 1, s.Jobs)
	assert.Equal(t, LogLevelWarn, s.LogLevel)
	assert.False(t, s.Verbose)
	assert.False(t, s.RelativeNames)
	assert.Empty(t, s.Exclude)
	assert.NoError(t, s.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "config.json", `{"jobs": 4, "output": "out.xml", "exclude": ["*.tmp"], "log_level": "debug"}`},
		{"yaml", "config.yaml", "jobs: 4\noutput: out.xml\nexclude:\n  - \"*.tmp\"\nlog_level: debug\n"},
		{"toml", "config.toml", "jobs = 4\noutput = \"out.xml\"\nexclude = [\"*.tmp\"]\nlog_level = \"debug\"\n"},
		{"no extension", "config", `{"jobs": 4, "output": "out.xml", "exclude": ["*.tmp"], "log_level": "debug"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, 4, s.Jobs)
			assert.Equal(t, "out.xml", s.Output)
			assert.Equal(t, []string{"*.tmp"}, s.Exclude)
			assert.Equal(t, LogLevelDebug, s.LogLevel)
			assert.False(t, s.Verbose)
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CMCOL_JOBS", "8")
	t.Setenv("CMCOL_RELATIVE_NAMES", "true")
	t.Setenv("CMCOL_LOG_LEVEL", "info")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, s.Jobs)
	assert.True(t, s.RelativeNames)
	assert.Equal(t, LogLevelInfo, s.LogLevel)
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

	s := DefaultSettings()
	s.LastInput = "/srv/music"
	s.Jobs = 3
	s.Exclude = []string{"*.log", "tmp/"}
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"zero jobs", func(s *Settings) { s.Jobs = 0 }},
		{"negative jobs", func(s *Settings) { s.Jobs = -2 }},
		{"unknown level", func(s *Settings) { s.LogLevel = "loud" }},
		{"empty output", func(s *Settings) { s.Output = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "config.json", filepath.Base(DefaultPath()))
	assert.Equal(t, "cmcol", filepath.Base(filepath.Dir(DefaultPath())))
}
