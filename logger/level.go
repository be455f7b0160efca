package logger

import (
	"github.com/RZinth/BA-AD-Core/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	TraceLevel = core.TraceLevel
	DebugLevel = core.DebugLevel
	InfoLevel  = core.InfoLevel
	WarnLevel  = core.WarnLevel
	ErrorLevel = core.ErrorLevel
)

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	return core.ParseLevel(s)
}
