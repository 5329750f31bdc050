// Package logging provides the structured logger used across the server.
// Components depend on the Logger interface, the concrete implementation
// wraps log/slog.
package logging

// Logger is the logging contract components receive at construction.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}
