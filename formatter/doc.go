// Package formatter defines how log entries are serialized into bytes.
//
// It exposes three interfaces: Formatter, which returns a []byte,
// WriterFormatter, which writes directly to an io.Writer, and
// BufferFormatter, which formats into a caller-provided buffer.
// Handlers check for the richer interfaces at construction time and
// prefer them, eliminating intermediate allocations on the write path.
//
// ConsoleFormatter is the human-facing renderer: severity badges
// ([ERROR] through [TRACE], [SUCCESS] for informational events with a
// success field, [CAUSE] on a follow-up line), per-level ANSI colors,
// underlined URLs inside field values, and badge alignment computed
// from visible characters so escape sequences never skew columns.
// JSONFormatter emits machine-readable single-line objects.
//
// Both formatters use a pooled bytes.Buffer internally and Go's
// Append-style functions (time.AppendFormat, strconv.AppendInt) to
// avoid per-call allocations. Buffers larger than 64 KiB are not
// returned to the pool to prevent a single large log line from
// permanently inflating memory usage.
package formatter
