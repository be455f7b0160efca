// Package asyncwriter decouples log-producing call sites from the cost
// of console I/O. A Writer handle enqueues byte payloads onto a bounded
// channel; a single background goroutine drains the channel in FIFO
// order into an in-memory buffer and performs the only actual writes to
// the output stream.
//
// Producer-side calls never block: WriteData and Flush fail fast with
// ErrFull when the channel is at capacity and ErrClosed once the worker
// has exited. Because exactly one worker drains exactly one channel,
// bytes reach the output stream in enqueue order regardless of how many
// goroutines share the handle.
//
// The paired Guard controls shutdown. Closing it sends the shutdown
// message and waits for the worker's final flush, which is the
// flush-on-exit guarantee: a process that closes the guard before
// returning from main never loses buffered log output. Dropping all
// Writer references without closing the guard leaves the worker running;
// only the guard (or a closed channel, the degraded misuse path)
// terminates it.
package asyncwriter
