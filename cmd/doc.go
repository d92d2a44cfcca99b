// Package cmd implements the command-line interface for unidrive.
//
// This package provides the following commands:
//   - browse: Link Google Drive accounts and print their folder trees
//   - version: Display version information
//
// The commands are a thin harness; all aggregation, classification and
// navigation semantics live in the internal packages.
package cmd
