// Package config handles configuration loading for the accord CLI.
//
// It provides functionality for:
//   - Loading configuration from .accord.config.json files
//   - Default configuration values
//   - Merging file configuration with flag overrides
package config
