// Package cmd implements the command-line interface for daybrief.
//
// This package provides the following commands:
//   - serve: Start the calendar and weather proxy HTTP server
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
