// Package files locates and manages the application's on-disk data:
// the per-user data directory (derived from the application name via
// the platform config dir), simple load/save helpers that create parent
// directories, and maintenance operations for output directories.
//
// The application name and data directory are process-wide and can each
// be set exactly once, before first use.
package files
