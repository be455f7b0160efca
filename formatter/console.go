package formatter

import (
	"bytes"
	"io"
	"time"

	"github.com/RZinth/BA-AD-Core/core"
)

const (
	successBadge = "[SUCCESS]"
	causeBadge   = "[CAUSE]"

	// badgeWidth is the visual column the badges align to when styling
	// is enabled. Padding is computed from the visible badge text, never
	// from its ANSI-escaped byte length.
	badgeWidth = 9
)

var levelBadges = [...]string{
	core.TraceLevel: "[TRACE]",
	core.DebugLevel: "[DEBUG]",
	core.InfoLevel:  "[INFO]",
	core.WarnLevel:  "[WARN]",
	core.ErrorLevel: "[ERROR]",
}

// ConsoleFormatter renders entries as human-readable, color-coded
// console lines: a severity badge, the message, name=value fields, and
// a separate [CAUSE] line when the entry carries a cause field.
//
// It is a pure formatter: no I/O of its own, no mutable state after
// construction, safe for concurrent use from any number of goroutines.
type ConsoleFormatter struct {
	colors     bool
	timestamps bool
	clock      func() time.Time
}

var (
	_ Formatter       = (*ConsoleFormatter)(nil)
	_ WriterFormatter = (*ConsoleFormatter)(nil)
	_ BufferFormatter = (*ConsoleFormatter)(nil)
)

// NewConsoleFormatter creates a console formatter with styling enabled
// and timestamps disabled.
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{
		colors: true,
		clock:  time.Now,
	}
}

// WithColors returns a copy with styling enabled or disabled. With
// styling disabled only field-joining remains; no escape sequences and
// no badge padding are emitted.
func (f *ConsoleFormatter) WithColors(enabled bool) *ConsoleFormatter {
	c := *f
	c.colors = enabled
	return &c
}

// WithTimestamps returns a copy that prefixes every line with an
// HH:MM:SS timestamp.
func (f *ConsoleFormatter) WithTimestamps(enabled bool) *ConsoleFormatter {
	c := *f
	c.timestamps = enabled
	return &c
}

// Format formats an entry into a newly allocated byte slice.
func (f *ConsoleFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo formats an entry and writes it directly to the writer.
func (f *ConsoleFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()

	f.FormatEntry(entry, buf)

	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// FormatEntry formats an entry into the given buffer (implements
// BufferFormatter).
func (f *ConsoleFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	isSuccess := entry.IsSuccess()

	// Fast path for the overwhelmingly common bare-message event.
	if len(entry.Fields) == 0 && !f.timestamps {
		f.writeBadge(buf, entry.Level, isSuccess)
		buf.WriteByte(' ')
		buf.WriteString(entry.Message)
		buf.WriteByte('\n')
		return
	}

	if f.timestamps {
		f.writeTimestamp(buf)
		buf.WriteByte(' ')
	}
	f.writeBadge(buf, entry.Level, isSuccess)
	buf.WriteByte(' ')
	f.writeFields(buf, entry, isSuccess)
	buf.WriteByte('\n')

	if cause, ok := entry.CauseValue(); ok {
		f.writeCauseLine(buf, cause)
	}
}

func (f *ConsoleFormatter) writeTimestamp(buf *bytes.Buffer) {
	ts := f.clock().Format("15:04:05")
	if f.colors {
		buf.WriteString(sgrBrightBlack)
		buf.WriteString(ts)
		buf.WriteString(sgrReset)
	} else {
		buf.WriteString(ts)
	}
}

func (f *ConsoleFormatter) writeBadge(buf *bytes.Buffer, level core.Level, isSuccess bool) {
	badge := "[UNKNOWN]"
	if int(level) < len(levelBadges) && levelBadges[level] != "" {
		badge = levelBadges[level]
	}
	color := levelColor(level)
	if isSuccess {
		badge, color = successBadge, successColor
	}

	if !f.colors {
		buf.WriteString(badge)
		return
	}
	for i := len(badge); i < badgeWidth; i++ {
		buf.WriteByte(' ')
	}
	writeStyled(buf, badge, color, true, false, false)
}

// writeFields emits the message followed by the display fields. The
// structural fields (message, success, cause) never appear as
// name=value pairs.
func (f *ConsoleFormatter) writeFields(buf *bytes.Buffer, entry *core.Entry, isSuccess bool) {
	buf.WriteString(entry.Message)

	color := levelColor(entry.Level)
	if isSuccess {
		color = successColor
	}

	display := displayFields(entry.Fields)
	for _, fd := range display {
		if len(display) == 1 {
			// A single extra field renders as ": value" without
			// repeating the name.
			buf.WriteString(": ")
			f.writeValue(buf, fd.StringValue(), color)
			break
		}
		buf.WriteString(", ")
		if f.colors {
			writeStyled(buf, fd.Key, color, false, true, false)
		} else {
			buf.WriteString(fd.Key)
		}
		buf.WriteByte('=')
		f.writeValue(buf, fd.StringValue(), color)
	}
}

// writeValue styles a field value, underlining any embedded URLs while
// the surrounding text keeps the plain per-level style.
func (f *ConsoleFormatter) writeValue(buf *bytes.Buffer, value, color string) {
	if !f.colors {
		buf.WriteString(value)
		return
	}
	if !containsURL(value) {
		writeStyled(buf, value, color, false, true, false)
		return
	}
	splitURLs(value,
		func(text string) { writeStyled(buf, text, color, false, true, false) },
		func(url string) { writeStyled(buf, url, color, false, true, true) },
	)
}

func (f *ConsoleFormatter) writeCauseLine(buf *bytes.Buffer, cause string) {
	if f.timestamps {
		f.writeTimestamp(buf)
		buf.WriteByte(' ')
	}

	if f.colors {
		for i := len(causeBadge); i < badgeWidth; i++ {
			buf.WriteByte(' ')
		}
		writeStyled(buf, causeBadge, causeColor, true, false, false)
	} else {
		buf.WriteString(causeBadge)
	}
	buf.WriteByte(' ')

	if !f.colors {
		buf.WriteString(cause)
	} else {
		splitURLs(cause,
			func(text string) { writeStyled(buf, text, causeColor, false, true, false) },
			func(url string) { writeStyled(buf, url, causeColor, false, true, true) },
		)
	}
	buf.WriteByte('\n')
}

func displayFields(fields []core.Field) []core.Field {
	display := fields[:0:0]
	for _, fd := range fields {
		switch fd.Key {
		case core.MessageKey, core.SuccessKey, core.CauseKey:
		default:
			display = append(display, fd)
		}
	}
	return display
}
