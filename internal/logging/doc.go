// Package logging constructs slog loggers for promptdex.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for machine consumption. Component-scoped
// loggers carry a "component" attribute that the console handler promotes
// into the message prefix.
package logging
