// Package errlog turns wrapped errors into structured log entries. It
// walks the Unwrap chain of an error and emits the outermost message as
// the log message, with the remaining layers joined by " -> " as the
// cause. On the console that shows up as:
//
//	[ERROR] Failed to write backup
//	[CAUSE] open /var/backups: permission denied -> disk quota exceeded
//
// The package has no global state; construct a Logger around whatever
// logger.Logger the program uses.
package errlog
