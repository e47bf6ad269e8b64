// Package logging constructs the slog loggers used across ChatVault and
// provides the shared attribute helpers and component conventions.
package logging
