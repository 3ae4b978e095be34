// Package cmd implements the accord CLI commands using Cobra.
//
// Available commands:
//   - check: Run accordance checks against document pairs
//   - validate: Check spec files without running them
//   - list: Display the accordances declared in spec files
//   - version: Show accord version information
//
// The CLI supports flags for selecting accordances, output formatting,
// database-backed destinations, and watch mode for development workflows.
package cmd
