// Package logging assembles the slog loggers used across autosub.
//
// Console output prefixes each line with the component and, when the context
// carries a services.Scope, the file, stage and short job ID. JSON output
// keeps them as ordinary fields. An optional log file receives a copy of
// every line.
package logging
