package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/RZinth/BA-AD-Core/core"
)

func plainConsole() *ConsoleFormatter {
	return NewConsoleFormatter().WithColors(false)
}

func formatString(t *testing.T, f *ConsoleFormatter, entry *core.Entry) string {
	t.Helper()
	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	return string(out)
}

func TestConsoleFormatter_SuccessBadge(t *testing.T) {
	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "Migration completed",
		Fields: []core.Field{
			{Key: core.SuccessKey, Type: core.StringType, Str: "true"},
		},
	}

	got := formatString(t, plainConsole(), entry)
	if got != "[SUCCESS] Migration completed\n" {
		t.Errorf("output = %q, want %q", got, "[SUCCESS] Migration completed\n")
	}
}

func TestConsoleFormatter_SuccessRequiresInfoLevel(t *testing.T) {
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "failed anyway",
		Fields: []core.Field{
			{Key: core.SuccessKey, Type: core.StringType, Str: "true"},
		},
	}

	got := formatString(t, plainConsole(), entry)
	if got != "[ERROR] failed anyway\n" {
		t.Errorf("output = %q, want %q", got, "[ERROR] failed anyway\n")
	}
}

func TestConsoleFormatter_MultipleFields(t *testing.T) {
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "API endpoint not found",
		Fields: []core.Field{
			{Key: "url", Type: core.StringType, Str: "https://api.example.com/v1/users"},
			{Key: "status", Type: core.IntType, Int64: 404},
		},
	}

	want := "[ERROR] API endpoint not found, url=https://api.example.com/v1/users, status=404\n"
	if got := formatString(t, plainConsole(), entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_CauseLine(t *testing.T) {
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "x",
		Fields: []core.Field{
			{Key: core.CauseKey, Type: core.StringType, Str: "disk full"},
		},
	}

	want := "[ERROR] x\n[CAUSE] disk full\n"
	if got := formatString(t, plainConsole(), entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_FirstCauseWins(t *testing.T) {
	entry := &core.Entry{
		Level:   core.WarnLevel,
		Message: "degraded",
		Fields: []core.Field{
			{Key: core.CauseKey, Type: core.StringType, Str: "primary down"},
			{Key: core.CauseKey, Type: core.StringType, Str: "secondary down"},
		},
	}

	got := formatString(t, plainConsole(), entry)
	if !strings.Contains(got, "[CAUSE] primary down\n") {
		t.Errorf("expected first cause in output, got %q", got)
	}
	if strings.Contains(got, "secondary down") {
		t.Errorf("second cause leaked into output %q", got)
	}
}

func TestConsoleFormatter_SingleFieldRendersBareValue(t *testing.T) {
	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "listening",
		Fields: []core.Field{
			{Key: "port", Type: core.IntType, Int64: 8080},
		},
	}

	want := "[INFO] listening: 8080\n"
	if got := formatString(t, plainConsole(), entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_FastPath(t *testing.T) {
	entry := &core.Entry{
		Level:   core.DebugLevel,
		Message: "probing cache",
	}

	want := "[DEBUG] probing cache\n"
	if got := formatString(t, plainConsole(), entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_Timestamps(t *testing.T) {
	f := plainConsole().WithTimestamps(true)
	f.clock = func() time.Time {
		return time.Date(2026, 3, 1, 13, 45, 9, 0, time.UTC)
	}

	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "started",
	}

	want := "13:45:09 [INFO] started\n"
	if got := formatString(t, f, entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_TimestampOnCauseLine(t *testing.T) {
	f := plainConsole().WithTimestamps(true)
	f.clock = func() time.Time {
		return time.Date(2026, 3, 1, 8, 0, 1, 0, time.UTC)
	}

	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "sync failed",
		Fields: []core.Field{
			{Key: core.CauseKey, Type: core.StringType, Str: "timeout"},
		},
	}

	want := "08:00:01 [ERROR] sync failed\n08:00:01 [CAUSE] timeout\n"
	if got := formatString(t, f, entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_ColoredBadgePadding(t *testing.T) {
	f := NewConsoleFormatter()

	tests := []struct {
		level core.Level
		want  string
	}{
		// Padding derives from the visible badge length, so [ERROR]
		// (7 chars) gets two leading spaces, [INFO] (6 chars) three.
		{core.ErrorLevel, "  \x1b[31;1m[ERROR]\x1b[0m "},
		{core.WarnLevel, "   \x1b[33;1m[WARN]\x1b[0m "},
		{core.InfoLevel, "   \x1b[34;1m[INFO]\x1b[0m "},
		{core.DebugLevel, "  \x1b[36;1m[DEBUG]\x1b[0m "},
		{core.TraceLevel, "  \x1b[35;1m[TRACE]\x1b[0m "},
	}

	for _, tt := range tests {
		entry := &core.Entry{Level: tt.level, Message: "m"}
		got := formatString(t, f, entry)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("level %v: output %q does not start with %q", tt.level, got, tt.want)
		}
	}
}

func TestConsoleFormatter_SuccessBadgeUnpaddedInColor(t *testing.T) {
	f := NewConsoleFormatter()
	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "done",
		Fields: []core.Field{
			{Key: core.SuccessKey, Type: core.BoolType, Int64: 1},
		},
	}

	got := formatString(t, f, entry)
	// [SUCCESS] is already 9 visible characters; no leading spaces.
	if !strings.HasPrefix(got, "\x1b[32;1m[SUCCESS]\x1b[0m done") {
		t.Errorf("output = %q", got)
	}
}

func TestConsoleFormatter_URLUnderline(t *testing.T) {
	f := NewConsoleFormatter()
	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "docs",
		Fields: []core.Field{
			{Key: "link", Type: core.StringType, Str: "see https://example.com/guide first"},
		},
	}

	got := formatString(t, f, entry)
	// The URL carries the underline attribute, the surrounding text the
	// plain per-level style, in original order.
	want := "\x1b[34;3msee \x1b[0m" +
		"\x1b[34;3;4mhttps://example.com/guide\x1b[0m" +
		"\x1b[34;3m first\x1b[0m"
	if !strings.Contains(got, want) {
		t.Errorf("output %q missing URL-aware styling %q", got, want)
	}
}

func TestConsoleFormatter_URLPlainWithoutColor(t *testing.T) {
	entry := &core.Entry{
		Level:   core.WarnLevel,
		Message: "fetch failed",
		Fields: []core.Field{
			{Key: "url", Type: core.StringType, Str: "ftp://mirror.example.org/pkg"},
		},
	}

	want := "[WARN] fetch failed: ftp://mirror.example.org/pkg\n"
	if got := formatString(t, plainConsole(), entry); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_CauseWithURLInColor(t *testing.T) {
	f := NewConsoleFormatter()
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "download failed",
		Fields: []core.Field{
			{Key: core.CauseKey, Type: core.StringType, Str: "unreachable https://cdn.example.com"},
		},
	}

	got := formatString(t, f, entry)
	if !strings.Contains(got, "  \x1b[31;1m[CAUSE]\x1b[0m ") {
		t.Errorf("missing padded cause badge in %q", got)
	}
	if !strings.Contains(got, "\x1b[31;3;4mhttps://cdn.example.com\x1b[0m") {
		t.Errorf("missing underlined cause URL in %q", got)
	}
}

func TestConsoleFormatter_StructuralFieldsHidden(t *testing.T) {
	entry := &core.Entry{
		Level:   core.InfoLevel,
		Message: "deployed",
		Fields: []core.Field{
			{Key: core.SuccessKey, Type: core.StringType, Str: "true"},
			{Key: "version", Type: core.StringType, Str: "v1.2.3"},
			{Key: core.CauseKey, Type: core.StringType, Str: "not shown inline"},
		},
	}

	got := formatString(t, plainConsole(), entry)
	// success and cause are structural: they steer the badge and the
	// second line but never render as name=value pairs.
	want := "[SUCCESS] deployed: v1.2.3\n[CAUSE] not shown inline\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsoleFormatter_FormatTo(t *testing.T) {
	var buf bytes.Buffer
	entry := &core.Entry{Level: core.InfoLevel, Message: "direct"}

	if err := plainConsole().FormatTo(entry, &buf); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "[INFO] direct\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestConsoleFormatter_FormatEntryMatchesFormat(t *testing.T) {
	f := plainConsole()
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "mismatch check",
		Fields: []core.Field{
			{Key: "attempt", Type: core.IntType, Int64: 3},
		},
	}

	var buf bytes.Buffer
	f.FormatEntry(entry, &buf)
	direct, _ := f.Format(entry)

	if buf.String() != string(direct) {
		t.Errorf("FormatEntry = %q, Format = %q", buf.String(), string(direct))
	}
}

func BenchmarkConsoleFormatter_FastPath(b *testing.B) {
	f := plainConsole()
	entry := &core.Entry{Level: core.InfoLevel, Message: "benchmark message"}
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		f.FormatEntry(entry, &buf)
	}
}

func BenchmarkConsoleFormatter_Fields(b *testing.B) {
	f := NewConsoleFormatter()
	entry := &core.Entry{
		Level:   core.ErrorLevel,
		Message: "request failed",
		Fields: []core.Field{
			{Key: "url", Type: core.StringType, Str: "https://api.example.com/v1/users"},
			{Key: "status", Type: core.IntType, Int64: 404},
		},
	}
	var buf bytes.Buffer

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		f.FormatEntry(entry, &buf)
	}
}
