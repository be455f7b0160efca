package handler

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/RZinth/BA-AD-Core/asyncwriter"
	"github.com/RZinth/BA-AD-Core/core"
	"github.com/RZinth/BA-AD-Core/formatter"
)

// ConsoleConfig holds configuration for the console handler
type ConsoleConfig struct {
	// Writer is the destination stream (default: os.Stdout). In async
	// mode it becomes the output of the background writer.
	Writer io.Writer
	// Formatter to use (default: ConsoleFormatter with color
	// auto-detection against Writer)
	Formatter formatter.Formatter
	// Async routes output through a buffered background writer
	Async bool
	// AsyncConfig tunes the background writer when Async is set. Its
	// Output is forced to Writer.
	AsyncConfig asyncwriter.Config
	// OverflowPolicy defines per-level overflow behavior (default: DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout bounds the wait of the Block policy (default: 100ms)
	BlockTimeout time.Duration
}

func applyConsoleDefaults(cfg *ConsoleConfig) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewConsoleFormatter().
			WithColors(formatter.ColorsSupported(cfg.Writer))
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
}

// ConsoleHandler renders entries on the calling goroutine and hands the
// bytes to its destination: either a background writer (async mode) or
// the configured io.Writer under a mutex (sync mode). Formatting always
// happens synchronously on the emitting goroutine; only the I/O is
// deferred.
type ConsoleHandler struct {
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter // cached, nil when unsupported

	sink  *asyncwriter.Writer // nil in sync mode
	guard *asyncwriter.Guard

	writer io.Writer // sync mode destination
	mu     sync.Mutex

	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration

	stats  *Stats
	closed chan struct{}

	bufPool sync.Pool
}

// NewConsoleHandler creates a new console handler.
func NewConsoleHandler(cfg ConsoleConfig) *ConsoleHandler {
	applyConsoleDefaults(&cfg)

	h := &ConsoleHandler{
		formatter:      cfg.Formatter,
		writer:         cfg.Writer,
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		stats:          NewStats(),
		closed:         make(chan struct{}),
		bufPool: sync.Pool{
			New: func() interface{} {
				b := new(bytes.Buffer)
				b.Grow(256)
				return b
			},
		},
	}
	h.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)

	if cfg.Async {
		ac := cfg.AsyncConfig
		ac.Output = cfg.Writer
		h.sink, h.guard = asyncwriter.NewWithConfig(ac)
	}

	return h
}

// HandleLog processes log data directly without a pooled Entry.
func (h *ConsoleHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
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
	err := h.Handle(entry)
	core.PutEntry(entry)
	return err
}

// Handle formats the entry and dispatches the bytes.
func (h *ConsoleHandler) Handle(entry *core.Entry) error {
	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.bufPool.Put(buf)

	if h.bufferFormatter != nil {
		h.bufferFormatter.FormatEntry(entry, buf)
	} else {
		data, err := h.formatter.Format(entry)
		if err != nil {
			return err
		}
		buf.Write(data)
	}

	if h.sink == nil {
		h.mu.Lock()
		_, err := h.writer.Write(buf.Bytes())
		h.mu.Unlock()
		if err == nil {
			h.stats.IncrementProcessed()
		}
		return err
	}

	return h.enqueue(entry.Level, buf.Bytes())
}

// enqueue pushes formatted bytes into the background writer, applying
// the level's overflow policy when the channel is full.
func (h *ConsoleHandler) enqueue(level core.Level, p []byte) error {
	err := h.sink.WriteData(p)
	if err == nil {
		h.stats.IncrementProcessed()
		return nil
	}
	if !errors.Is(err, asyncwriter.ErrFull) {
		h.stats.IncrementDropped(level)
		return err
	}

	policy, ok := h.overflowPolicy[level]
	if !ok {
		policy = DropNewest // Default if not specified
	}

	switch policy {
	case Block:
		timer := time.NewTimer(h.blockTimeout)
		defer timer.Stop()
		for {
			select {
			case <-timer.C:
				// Timeout: drop rather than stall the producer further.
				h.stats.IncrementBlocked()
				h.stats.IncrementDropped(level)
				return nil
			case <-h.closed:
				h.stats.IncrementDropped(level)
				return nil
			default:
			}

			err = h.sink.WriteData(p)
			if err == nil {
				h.stats.IncrementProcessed()
				return nil
			}
			if !errors.Is(err, asyncwriter.ErrFull) {
				h.stats.IncrementDropped(level)
				return err
			}
			time.Sleep(100 * time.Microsecond)
		}

	case DropNewest:
		fallthrough
	default:
		h.stats.IncrementDropped(level)
		return nil
	}
}

// CanRecycleEntry returns true: the handler is done with the entry by
// the time Handle returns, since formatting happens on the caller.
func (h *ConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Stats returns a snapshot of the current statistics
func (h *ConsoleHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Flush requests an out-of-band flush of buffered output.
func (h *ConsoleHandler) Flush() error {
	if h.sink != nil {
		return h.sink.Flush()
	}
	return nil
}

// Close stops the handler. In async mode it closes the lifetime guard,
// which flushes remaining output before returning.
func (h *ConsoleHandler) Close() error {
	select {
	case <-h.closed:
		return nil // Already closed
	default:
	}
	close(h.closed)

	if h.guard != nil {
		return h.guard.Close()
	}
	return nil
}
