// Package handler connects log entries to their output. A handler
// receives entries from the logger frontend, renders them with a
// formatter on the calling goroutine, and moves the resulting bytes to
// the destination.
//
// ConsoleHandler is the main implementation. In async mode the bytes go
// into an asyncwriter pipeline: the enqueue never blocks, and when the
// bounded channel fills up a per-level OverflowPolicy decides between
// dropping the entry (DropNewest) and retrying for a bounded interval
// (Block). Drops and blocks are counted in Stats, queryable via the
// StatsProvider interface. In sync mode bytes are written directly to
// the configured io.Writer under a mutex.
//
// MultiHandler fans entries out to several handlers (for example a
// colored console handler plus a JSON handler), and SlogHandler adapts
// the pipeline to log/slog so standard-library call sites can use it
// unchanged.
package handler
