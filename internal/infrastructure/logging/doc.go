// Package logging provides structured logging for switchbridge.
//
// It wraps log/slog with configuration-driven handler selection (JSON or
// text), level filtering, and default service/version fields. Components
// receive a *Logger (or a narrow logger interface they define themselves)
// so tests can run with a noop implementation.
package logging
