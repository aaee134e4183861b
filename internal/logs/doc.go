// Package logs reads the daemon's rotating JSON log file for the CLI.
//
// Tail returns the last N lines or everything written past a byte offset with
// bounded memory, and Follow polls for appended lines until the context ends.
// ParseEntry and Filter narrow the stream to one job or a minimum level, and
// FormatEntry renders an entry in the same single-line shape the console
// handler prints.
package logs
