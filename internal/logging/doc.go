// Package logging provides slog attribute helpers and constant keys so
// the engine's log output stays consistent across packages. Account
// emails are only ever logged hashed.
package logging
