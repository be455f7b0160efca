package asyncwriter

import (
	"fmt"
	"io"
)

// Sink is the byte-sink capability the pipeline hands around: append
// bytes, flush buffered bytes. Both the worker's buffer and the Writer
// handle satisfy it, so anything downstream of a Sink works the same
// against the real pipeline or a test double.
type Sink interface {
	Write(p []byte) (n int, err error)
	Flush() error
}

// buffer accumulates bytes up to a capacity threshold and owns the
// underlying output stream. It is mutated exclusively by the worker
// goroutine, so it needs no locking.
type buffer struct {
	data   []byte
	limit  int
	out    io.Writer
	errOut io.Writer
}

var _ Sink = (*buffer)(nil)

func newBuffer(limit int, out, errOut io.Writer) *buffer {
	return &buffer{
		data:   make([]byte, 0, limit),
		limit:  limit,
		out:    out,
		errOut: errOut,
	}
}

// Write appends p and flushes when the threshold is reached. Append
// first, then check: a single oversized payload must land in the buffer
// and trigger a flush rather than being dropped.
func (b *buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	if len(b.data) >= b.limit {
		return len(p), b.Flush()
	}
	return len(p), nil
}

// Flush writes the buffered bytes to the output stream and clears the
// buffer. A write failure is reported on the error stream and otherwise
// swallowed; logging must never take down the host application, so the
// worker continues with an empty buffer.
func (b *buffer) Flush() error {
	if len(b.data) == 0 {
		return nil
	}
	if _, err := b.out.Write(b.data); err != nil {
		fmt.Fprintf(b.errOut, "asyncwriter: flush failed: %v\n", err)
	}
	b.data = b.data[:0]
	return nil
}
