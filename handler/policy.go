package handler

import (
	"sync/atomic"

	"github.com/RZinth/BA-AD-Core/core"
)

// OverflowPolicy defines how a handler reacts when the writer's bounded
// channel is full.
type OverflowPolicy int

const (
	// DropNewest drops the entry being logged when the channel is full.
	DropNewest OverflowPolicy = iota
	// Block retries the enqueue until a timeout, then drops. The wait is
	// bounded; logging never stalls a producer indefinitely.
	Block
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy returns the default level-based overflow policies:
// drop everything below Error, retry briefly for errors.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel: DropNewest,
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
	}
}

const numLevels = int(core.ErrorLevel) + 1

// Stats tracks handler statistics with per-level atomic counters.
type Stats struct {
	dropped   [numLevels]atomic.Uint64
	blocked   atomic.Uint64
	processed atomic.Uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level
func (s *Stats) IncrementDropped(level core.Level) {
	if int(level) < numLevels {
		s.dropped[level].Add(1)
	}
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	s.blocked.Add(1)
}

// IncrementProcessed atomically increments the processed counter
func (s *Stats) IncrementProcessed() {
	s.processed.Add(1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	if int(level) < numLevels {
		return s.dropped[level].Load()
	}
	return 0
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// GetBlocked returns the blocked count
func (s *Stats) GetBlocked() uint64 {
	return s.blocked.Load()
}

// GetProcessed returns the processed count
func (s *Stats) GetProcessed() uint64 {
	return s.processed.Load()
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.blocked.Store(0)
	s.processed.Store(0)
}

// Snapshot is a point-in-time copy of handler statistics.
type Snapshot struct {
	Dropped   map[core.Level]uint64
	Blocked   uint64
	Processed uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, numLevels)
	for i := range s.dropped {
		dropped[core.Level(i)] = s.dropped[i].Load()
	}
	return Snapshot{
		Dropped:   dropped,
		Blocked:   s.GetBlocked(),
		Processed: s.GetProcessed(),
	}
}
