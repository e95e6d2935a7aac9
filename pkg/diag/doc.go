// Package diag provides the four-severity diagnostic stream the core uses
// to report problems: debug, warning, error, and fatal. Messages carry an
// indentation level so a verbosity threshold can suppress detail without
// losing the top-level message, and are routed through a caller-supplied
// Sink so an outer shell (e.g. an editor-integration renderer) can capture
// and re-route them instead of printing to a stream.
package diag
