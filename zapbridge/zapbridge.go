package zapbridge

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RZinth/BA-AD-Core/asyncwriter"
	"github.com/RZinth/BA-AD-Core/core"
)

// NewCore builds a zapcore.Core that emits JSON through ws. Pass an
// *asyncwriter.Writer to get non-blocking output; its Sync method maps
// to a flush request.
func NewCore(ws zapcore.WriteSyncer, level core.Level) zapcore.Core {
	enc := zapcore.NewJSONEncoder(encoderConfig())
	return zapcore.NewCore(enc, ws, zapLevel(level))
}

// NewLogger builds a zap.Logger backed by a fresh background writer
// with the given configuration. The returned Guard must be closed after
// the logger is done; it flushes buffered output.
func NewLogger(cfg asyncwriter.Config, level core.Level) (*zap.Logger, *asyncwriter.Guard) {
	w, guard := asyncwriter.NewWithConfig(cfg)
	return zap.New(NewCore(w, level)), guard
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// zapLevel maps a core level to zap's scale. Trace has no zap
// equivalent and maps to Debug.
func zapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.ErrorLevel:
		return zapcore.ErrorLevel
	case core.WarnLevel:
		return zapcore.WarnLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
