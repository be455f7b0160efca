package handler

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RZinth/BA-AD-Core/asyncwriter"
	"github.com/RZinth/BA-AD-Core/core"
	"github.com/RZinth/BA-AD-Core/formatter"
)

// safeBuffer is a goroutine-safe capturing writer.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// stallingWriter blocks inside Write until released.
type stallingWriter struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	out     safeBuffer
}

func newStallingWriter() *stallingWriter {
	return &stallingWriter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *stallingWriter) Write(p []byte) (int, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.out.Write(p)
}

func plainFormatter() formatter.Formatter {
	return formatter.NewConsoleFormatter().WithColors(false)
}

func infoEntry(msg string) *core.Entry {
	return &core.Entry{Time: time.Now(), Level: core.InfoLevel, Message: msg}
}

func TestConsoleHandler_Sync(t *testing.T) {
	out := &safeBuffer{}
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    out,
		Formatter: plainFormatter(),
	})
	defer h.Close()

	if err := h.Handle(infoEntry("sync line")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if got := out.String(); got != "[INFO] sync line\n" {
		t.Errorf("output = %q", got)
	}
	if h.Stats().Processed != 1 {
		t.Errorf("processed = %d, want 1", h.Stats().Processed)
	}
}

func TestConsoleHandler_AsyncFlushOnClose(t *testing.T) {
	out := &safeBuffer{}
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    out,
		Formatter: plainFormatter(),
		Async:     true,
		AsyncConfig: asyncwriter.Config{
			FlushInterval: time.Hour, // only Close may flush
		},
	})

	for i := 0; i < 5; i++ {
		if err := h.Handle(infoEntry("async line")); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := strings.Count(out.String(), "[INFO] async line\n"); got != 5 {
		t.Errorf("got %d lines, want 5:\n%s", got, out.String())
	}
}

func TestConsoleHandler_DropNewestOnOverflow(t *testing.T) {
	sw := newStallingWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    sw,
		Formatter: plainFormatter(),
		Async:     true,
		AsyncConfig: asyncwriter.Config{
			BufferCapacity:  1, // flush per payload, so the worker stalls
			FlushInterval:   time.Hour,
			ChannelCapacity: 2,
		},
	})

	// First entry parks the worker inside Write.
	if err := h.Handle(infoEntry("first")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	<-sw.started

	// Fill the channel, then overflow it.
	for i := 0; i < 2; i++ {
		if err := h.Handle(infoEntry("fill")); err != nil {
			t.Fatalf("Handle(fill) error = %v", err)
		}
	}
	if err := h.Handle(infoEntry("overflow")); err != nil {
		t.Fatalf("Handle(overflow) error = %v, dropping must not error", err)
	}

	if got := h.Stats().Dropped[core.InfoLevel]; got != 1 {
		t.Errorf("dropped info = %d, want 1", got)
	}

	close(sw.release)
	h.Close()

	if strings.Contains(sw.out.String(), "overflow") {
		t.Errorf("dropped entry reached the output:\n%s", sw.out.String())
	}
}

func TestConsoleHandler_BlockPolicyTimesOut(t *testing.T) {
	sw := newStallingWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    sw,
		Formatter: plainFormatter(),
		Async:     true,
		AsyncConfig: asyncwriter.Config{
			BufferCapacity:  1,
			FlushInterval:   time.Hour,
			ChannelCapacity: 2,
		},
		BlockTimeout: 20 * time.Millisecond,
	})

	if err := h.Handle(infoEntry("first")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	<-sw.started
	for i := 0; i < 2; i++ {
		if err := h.Handle(infoEntry("fill")); err != nil {
			t.Fatalf("Handle(fill) error = %v", err)
		}
	}

	// Error entries use the Block policy by default.
	errEntry := &core.Entry{Time: time.Now(), Level: core.ErrorLevel, Message: "urgent"}
	start := time.Now()
	if err := h.Handle(errEntry); err != nil {
		t.Fatalf("Handle(error) error = %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 20*time.Millisecond {
		t.Errorf("Block policy returned after %v, before the timeout", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("Block policy stalled for %v", elapsed)
	}
	if got := h.Stats().Blocked; got != 1 {
		t.Errorf("blocked = %d, want 1", got)
	}
	if got := h.Stats().Dropped[core.ErrorLevel]; got != 1 {
		t.Errorf("dropped error = %d, want 1", got)
	}

	close(sw.release)
	h.Close()
}

func TestConsoleHandler_BlockPolicyRecovers(t *testing.T) {
	sw := newStallingWriter()
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    sw,
		Formatter: plainFormatter(),
		Async:     true,
		AsyncConfig: asyncwriter.Config{
			BufferCapacity:  1,
			FlushInterval:   time.Hour,
			ChannelCapacity: 2,
		},
		BlockTimeout: 5 * time.Second,
	})

	if err := h.Handle(infoEntry("first")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	<-sw.started
	for i := 0; i < 2; i++ {
		if err := h.Handle(infoEntry("fill")); err != nil {
			t.Fatalf("Handle(fill) error = %v", err)
		}
	}

	// Release the worker shortly after; the blocked error entry should
	// then be enqueued rather than dropped.
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(sw.release)
	}()

	errEntry := &core.Entry{Time: time.Now(), Level: core.ErrorLevel, Message: "eventually delivered"}
	if err := h.Handle(errEntry); err != nil {
		t.Fatalf("Handle(error) error = %v", err)
	}
	h.Close()

	if !strings.Contains(sw.out.String(), "eventually delivered") {
		t.Errorf("blocked entry never reached the output:\n%s", sw.out.String())
	}
	if got := h.Stats().Dropped[core.ErrorLevel]; got != 0 {
		t.Errorf("dropped error = %d, want 0", got)
	}
}

func TestConsoleHandler_HandleLog(t *testing.T) {
	out := &safeBuffer{}
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    out,
		Formatter: plainFormatter(),
	})
	defer h.Close()

	err := h.HandleLog(time.Now(), core.WarnLevel, "direct", nil,
		[]core.Field{{Key: "attempt", Type: core.IntType, Int64: 2}}, core.CallerInfo{})
	if err != nil {
		t.Fatalf("HandleLog() error = %v", err)
	}

	if got := out.String(); got != "[WARN] direct: 2\n" {
		t.Errorf("output = %q", got)
	}
}

func TestConsoleHandler_CloseIdempotent(t *testing.T) {
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    &safeBuffer{},
		Formatter: plainFormatter(),
		Async:     true,
	})

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestConsoleHandler_CanRecycleEntry(t *testing.T) {
	h := NewConsoleHandler(ConsoleConfig{
		Writer:    &safeBuffer{},
		Formatter: plainFormatter(),
		Async:     true,
	})
	defer h.Close()

	// Formatting happens before Handle returns, so entries are safe to
	// recycle even in async mode.
	if !h.CanRecycleEntry() {
		t.Error("CanRecycleEntry() = false, want true")
	}
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.IncrementDropped(core.InfoLevel)
	s.IncrementDropped(core.InfoLevel)
	s.IncrementDropped(core.ErrorLevel)
	s.IncrementBlocked()
	s.IncrementProcessed()

	if got := s.GetDropped(core.InfoLevel); got != 2 {
		t.Errorf("GetDropped(Info) = %d, want 2", got)
	}
	if got := s.GetTotalDropped(); got != 3 {
		t.Errorf("GetTotalDropped() = %d, want 3", got)
	}

	snap := s.GetSnapshot()
	if snap.Dropped[core.ErrorLevel] != 1 || snap.Blocked != 1 || snap.Processed != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	s.Reset()
	if s.GetTotalDropped() != 0 || s.GetBlocked() != 0 || s.GetProcessed() != 0 {
		t.Error("Reset() did not zero the counters")
	}
}

func TestOverflowPolicyString(t *testing.T) {
	if DropNewest.String() != "DropNewest" || Block.String() != "Block" {
		t.Error("unexpected policy strings")
	}
	if OverflowPolicy(42).String() != "Unknown" {
		t.Error("unexpected string for out-of-range policy")
	}
}
