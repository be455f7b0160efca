package asyncwriter

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned by enqueue operations after the worker has
	// shut down.
	ErrClosed = errors.New("asyncwriter: worker has shut down")
	// ErrFull is returned by enqueue operations when the channel is at
	// capacity. Callers are expected to drop or count the event, not
	// retry synchronously.
	ErrFull = errors.New("asyncwriter: channel is full")
)

// Config holds the tunables of the background writer.
type Config struct {
	// BufferCapacity is the flush threshold in bytes (default: 8192).
	BufferCapacity int
	// FlushInterval is the periodic flush tick (default: 100ms).
	FlushInterval time.Duration
	// ChannelCapacity is the bounded channel size in message slots
	// (default: 10000).
	ChannelCapacity int
	// Output is the stream the worker writes to (default: os.Stdout).
	Output io.Writer
	// ErrOutput receives best-effort reports of write failures
	// (default: os.Stderr). Failures never propagate to producers.
	ErrOutput io.Writer
}

// DefaultConfig returns the default writer configuration.
func DefaultConfig() Config {
	return Config{
		BufferCapacity:  8192,
		FlushInterval:   100 * time.Millisecond,
		ChannelCapacity: 10000,
	}
}

func (c *Config) applyDefaults() {
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = 8192
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 100 * time.Millisecond
	}
	if c.ChannelCapacity <= 0 {
		c.ChannelCapacity = 10000
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.ErrOutput == nil {
		c.ErrOutput = os.Stderr
	}
}

type messageKind uint8

const (
	dataMessage messageKind = iota
	flushMessage
	shutdownMessage
)

// message is the channel protocol between producers and the worker.
// Sending a data message transfers ownership of the payload slice.
type message struct {
	kind messageKind
	data []byte
}

// Writer is the producer-facing handle of the background writer. It is
// cheap to share: all methods are safe for concurrent use, and every
// goroutine holding the same *Writer feeds the same worker.
type Writer struct {
	ch   chan message
	done chan struct{}
}

var _ Sink = (*Writer)(nil)

// New creates a background writer with the default configuration and
// returns the producer handle together with its lifetime guard.
func New() (*Writer, *Guard) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a background writer with the given
// configuration. The worker goroutine starts immediately.
func NewWithConfig(cfg Config) (*Writer, *Guard) {
	cfg.applyDefaults()
	w := &Writer{
		ch:   make(chan message, cfg.ChannelCapacity),
		done: make(chan struct{}),
	}
	go w.run(cfg)
	return w, &Guard{w: w}
}

// WriteData enqueues a copy of p for the background worker. It never
// blocks: ErrFull when the channel is at capacity, ErrClosed when the
// worker has exited.
func (w *Writer) WriteData(p []byte) error {
	// The channel transfers ownership of the payload, so the caller's
	// slice is copied before it is sent.
	data := make([]byte, len(p))
	copy(data, p)
	return w.send(message{kind: dataMessage, data: data})
}

// Flush requests an out-of-band flush of the worker's buffer, with the
// same non-blocking contract as WriteData.
func (w *Writer) Flush() error {
	return w.send(message{kind: flushMessage})
}

func (w *Writer) send(msg message) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.ch <- msg:
		return nil
	case <-w.done:
		return ErrClosed
	default:
		return ErrFull
	}
}

// Write implements io.Writer over WriteData, so the handle plugs into
// anything expecting a writer.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.WriteData(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer by requesting a flush.
func (w *Writer) Sync() error {
	return w.Flush()
}

// run is the worker loop: the single goroutine that mutates the buffer
// and touches the output stream. Its only suspension point is the
// select over the message channel and the flush ticker.
func (w *Writer) run(cfg Config) {
	defer close(w.done)

	buf := newBuffer(cfg.BufferCapacity, cfg.Output, cfg.ErrOutput)
	ticker := time.NewTicker(cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-w.ch:
			if !ok {
				// Channel closed without a shutdown message: degraded
				// but safe, flush and exit quietly.
				buf.Flush()
				return
			}
			if w.handle(msg, buf) {
				return
			}
			// Batch drain: consume messages already queued without
			// re-entering the select, so bursts are processed in one
			// pass.
		drain:
			for {
				select {
				case msg, ok := <-w.ch:
					if !ok {
						buf.Flush()
						return
					}
					if w.handle(msg, buf) {
						return
					}
				default:
					break drain
				}
			}
		case <-ticker.C:
			buf.Flush()
		}
	}
}

// handle applies one message to the buffer and reports whether the
// worker should terminate. Termination always flushes first.
func (w *Writer) handle(msg message, buf *buffer) bool {
	switch msg.kind {
	case dataMessage:
		buf.Write(msg.data)
	case flushMessage:
		buf.Flush()
	case shutdownMessage:
		buf.Flush()
		return true
	}
	return false
}

// Guard is the lifetime guard of one writer pipeline. Exactly one guard
// is created per pipeline; closing it triggers the final flush and stops
// the worker. It must sit with the top-level owner (typically main),
// while Writer handles are passed around freely.
type Guard struct {
	w    *Writer
	once sync.Once
}

// Close sends the shutdown message and waits for the worker to finish
// its final flush. It is idempotent and safe to call from any
// goroutine, including during panic unwinds. If the worker is already
// gone the failed send is ignored; shutdown has simply happened before.
func (g *Guard) Close() error {
	g.once.Do(func() {
		select {
		case g.w.ch <- message{kind: shutdownMessage}:
		case <-g.w.done:
			return
		}
		<-g.w.done
	})
	return nil
}
