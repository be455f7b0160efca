package handler

import (
	"time"

	"github.com/RZinth/BA-AD-Core/core"
)

// MultiHandler sends log entries to multiple handlers
type MultiHandler struct {
	handlers     []Handler
	fastHandlers []FastHandler // cached FastHandler interfaces (nil when handler doesn't implement it)
	allFast      bool          // true when every child implements FastHandler
	recycleEntry bool          // true when every child supports entry recycling
}

// NewMultiHandler creates a new multi-handler
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	m := &MultiHandler{
		handlers:     handlers,
		fastHandlers: make([]FastHandler, len(handlers)),
		allFast:      true,
		recycleEntry: true,
	}
	for i, h := range handlers {
		if fh, ok := h.(FastHandler); ok {
			m.fastHandlers[i] = fh
		} else {
			m.allFast = false
		}
		if rc, ok := h.(interface{ CanRecycleEntry() bool }); ok {
			if !rc.CanRecycleEntry() {
				m.recycleEntry = false
			}
		} else {
			m.recycleEntry = false
		}
	}
	return m
}

// HandleLog processes log data directly without requiring a pooled Entry.
// When all children implement FastHandler, this avoids Entry allocation entirely.
func (m *MultiHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	if m.allFast {
		var lastErr error
		for _, fh := range m.fastHandlers {
			if err := fh.HandleLog(t, level, msg, loggerFields, callFields, caller); err != nil {
				lastErr = err
			}
		}
		return lastErr
	}

	// Mixed path: build a pooled entry for the non-fast handlers.
	entry := core.GetEntry()
	entry.Time = t
	entry.Level = level
	entry.Message = msg
	entry.Caller = caller
	if len(loggerFields) > 0 {
		entry.Fields = append(entry.Fields, loggerFields...)
	}
	if len(callFields) > 0 {
		entry.Fields = append(entry.Fields, callFields...)
	}

	err := m.Handle(entry)
	if m.recycleEntry {
		core.PutEntry(entry)
	}
	return err
}

// Handle sends the entry to all child handlers, returning the last error.
func (m *MultiHandler) Handle(entry *core.Entry) error {
	var lastErr error
	for _, h := range m.handlers {
		if err := h.Handle(entry); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// CanRecycleEntry reports whether every child handler is done with the
// entry when Handle returns.
func (m *MultiHandler) CanRecycleEntry() bool {
	return m.recycleEntry
}

// Close closes all child handlers, returning the last error.
func (m *MultiHandler) Close() error {
	var lastErr error
	for _, h := range m.handlers {
		if err := h.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
