// Package ui provides terminal UI components for the fortictl CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal
// output for commit operations. The components follow a "run once and exit"
// pattern - they render output compellingly but don't require user
// interaction, except for the explicit confirmation prompt before a forced
// commit.
//
// # Architecture
//
// The UI package provides four main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing commit phases
//   - Result: Success/failure boxes with styled information
//   - DiffOutput: Raw configuration diff box for review before commit
//
// # Logging Integration
//
// This package expects logging to be controlled via the FORTICTL_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
