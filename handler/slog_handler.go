package handler

import (
	"context"
	"log/slog"

	"github.com/RZinth/BA-AD-Core/core"
)

// SlogHandler adapts a Handler to the log/slog.Handler interface, so
// slog call sites can feed the same pipeline.
type SlogHandler struct {
	handler Handler
	level   core.Level
	attrs   []core.Field
	group   string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping the given Handler.
func NewSlogHandler(h Handler, level core.Level) *SlogHandler {
	return &SlogHandler{
		handler: h,
		level:   level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= s.level
}

// Handle converts the slog.Record to a core.Entry and passes it to the
// wrapped handler.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	entry := core.GetEntry()
	entry.Time = record.Time
	entry.Level = slogLevelToCore(record.Level)
	entry.Message = record.Message

	if len(s.attrs) > 0 {
		entry.Fields = append(entry.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = append(entry.Fields, slogAttrToField(s.group, a))
		return true
	})

	err := s.handler.Handle(entry)
	if rc, ok := s.handler.(interface{ CanRecycleEntry() bool }); ok && rc.CanRecycleEntry() {
		core.PutEntry(entry)
	}
	return err
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(newAttrs, s.attrs)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slogAttrToField(s.group, a))
	}
	return &SlogHandler{
		handler: s.handler,
		level:   s.level,
		attrs:   newAttrs,
		group:   s.group,
	}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	newAttrs := make([]core.Field, len(s.attrs))
	copy(newAttrs, s.attrs)
	return &SlogHandler{
		handler: s.handler,
		level:   s.level,
		attrs:   newAttrs,
		group:   newGroup,
	}
}

// slogLevelToCore converts a slog.Level to a core.Level. Levels below
// slog's debug map to the trace tier.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// slogAttrToField converts a slog.Attr to a core.Field, prepending the group prefix if present.
func slogAttrToField(group string, a slog.Attr) core.Field {
	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindString:
		return core.Field{Key: key, Type: core.StringType, Str: a.Value.String()}
	case slog.KindInt64:
		return core.Field{Key: key, Type: core.Int64Type, Int64: a.Value.Int64()}
	case slog.KindFloat64:
		return core.Field{Key: key, Type: core.Float64Type, Float64: a.Value.Float64()}
	case slog.KindBool:
		val := int64(0)
		if a.Value.Bool() {
			val = 1
		}
		return core.Field{Key: key, Type: core.BoolType, Int64: val}
	case slog.KindTime:
		return core.Field{Key: key, Type: core.TimeType, Int64: a.Value.Time().UnixNano()}
	case slog.KindDuration:
		return core.Field{Key: key, Type: core.DurationType, Int64: int64(a.Value.Duration())}
	case slog.KindGroup:
		// Group attrs flatten into prefixed fields; an empty group
		// degrades to a debug-formatted value.
		attrs := a.Value.Group()
		if len(attrs) > 0 {
			return slogAttrToField(key, attrs[0])
		}
		return core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()}
	default:
		return core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()}
	}
}
