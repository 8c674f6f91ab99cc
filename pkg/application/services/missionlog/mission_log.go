package missionlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// DefaultCapacity is the number of entries the feed retains
const DefaultCapacity = 50

// Log accumulates human-readable lines describing allocations. A line is emitted
// at most once per distinct text for the lifetime of the log, so recomputing an
// unchanged plan adds nothing. The feed is capped but the set of emitted texts is
// not: it keeps one entry per distinct line ever recorded, including lines that
// have since dropped off the feed. Long-lived callers can watch Seen and start a
// fresh Log when it grows too large.
type Log struct {
	mu       sync.RWMutex
	capacity int
	clock    func() time.Time
	entries  []entities.LogEntry
	emitted  map[string]struct{}
}

// New creates a log holding at most capacity entries. A non-positive capacity
// selects DefaultCapacity and a nil clock selects time.Now.
func New(capacity int, clock func() time.Time) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = time.Now
	}
	return &Log{
		capacity: capacity,
		clock:    clock,
		entries:  []entities.LogEntry{},
		emitted:  make(map[string]struct{}),
	}
}

// FormatLine renders the log text for one resource line of an allocation
func FormatLine(alloc *entities.Allocation, line entities.ResourceLine) string {
	label := line.Label
	if label == "" {
		label = line.Resource.Label()
	}
	return fmt.Sprintf("%d %s assigned to %s from %s", line.Quantity, label, alloc.CampName, alloc.ProviderName)
}

// Record derives lines from allocations and prepends those never seen before.
// The returned slice holds only the entries added by this call, in allocation order.
func (l *Log) Record(allocations []entities.Allocation) []entities.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	added := make([]entities.LogEntry, 0)
	for i := range allocations {
		alloc := &allocations[i]
		for _, line := range alloc.Resources {
			text := FormatLine(alloc, line)
			if _, seen := l.emitted[text]; seen {
				continue
			}
			l.emitted[text] = struct{}{}

			label := line.Label
			if label == "" {
				label = line.Resource.Label()
			}
			added = append(added, entities.LogEntry{
				ID:   fmt.Sprintf("%s-%s", alloc.ID, label),
				Text: text,
				Time: now,
			})
		}
	}

	if len(added) == 0 {
		return added
	}

	feed := make([]entities.LogEntry, 0, len(added)+len(l.entries))
	feed = append(feed, added...)
	feed = append(feed, l.entries...)
	if len(feed) > l.capacity {
		feed = feed[:l.capacity]
	}
	l.entries = feed
	return added
}

// Entries returns a copy of the feed, newest first
func (l *Log) Entries() []entities.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]entities.LogEntry(nil), l.entries...)
}

// Len returns the number of entries currently in the feed
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Seen returns the number of distinct lines recorded over the life of the log
func (l *Log) Seen() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.emitted)
}

// Capacity returns the maximum feed length
func (l *Log) Capacity() int {
	return l.capacity
}
