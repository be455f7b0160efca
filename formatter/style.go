package formatter

import (
	"bytes"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/RZinth/BA-AD-Core/core"
)

// SGR color codes, one per severity tier. Success overrides the level
// color with the positive green; cause lines always render red.
var levelColors = [...]string{
	core.TraceLevel: "35", // magenta
	core.DebugLevel: "36", // cyan
	core.InfoLevel:  "34", // blue
	core.WarnLevel:  "33", // yellow
	core.ErrorLevel: "31", // red
}

const (
	successColor = "32"
	causeColor   = "31"

	sgrReset       = "\x1b[0m"
	sgrBrightBlack = "\x1b[90m"
)

func levelColor(level core.Level) string {
	if int(level) < len(levelColors) && levelColors[level] != "" {
		return levelColors[level]
	}
	return levelColors[core.InfoLevel]
}

// writeStyled writes s wrapped in one SGR sequence composed of the color
// and the requested attributes, followed by a reset.
func writeStyled(buf *bytes.Buffer, s, color string, bold, italic, underline bool) {
	buf.WriteString("\x1b[")
	buf.WriteString(color)
	if bold {
		buf.WriteString(";1")
	}
	if italic {
		buf.WriteString(";3")
	}
	if underline {
		buf.WriteString(";4")
	}
	buf.WriteByte('m')
	buf.WriteString(s)
	buf.WriteString(sgrReset)
}

// ColorsSupported reports whether w is a terminal that renders ANSI
// styling. Non-file writers (pipes, buffers, test doubles) never are.
func ColorsSupported(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
