// Package config provides configuration management for cmcol.
//
// This package handles:
//   - Loading and saving settings from JSON, YAML or TOML files
//   - Default configuration values
//   - CMCOL_ environment overrides
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Writes to stdout, probes sequentially, logs warnings and errors
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Malformed file; a missing file yields defaults
//	}
//
// Any setting can be overridden from the environment:
//
//	CMCOL_JOBS=4 CMCOL_LOG_LEVEL=debug cmcol ~/Music
//
// # Saving Settings
//
//	settings.LastInput = "/srv/music"
//	err := settings.Save(config.DefaultPath())
package config
