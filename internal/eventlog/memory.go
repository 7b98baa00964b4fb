package eventlog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryLog is an in-process Log with the same contract as RedisLog:
// topics are independent append-only streams with <ms>-<seq> IDs, and
// reads block until an event appears past the cursor. It backs the test
// suite and single-process runs.
type MemoryLog struct {
	mu     sync.Mutex
	topics map[string]*memStream
}

type memStream struct {
	entries []memEntry
	wake    chan struct{} // closed and replaced on every append
}

type memEntry struct {
	ms, seq uint64
	event   Event
}

// NewMemoryLog creates an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{topics: make(map[string]*memStream)}
}

// stream returns the topic's stream, creating it on first use.
// Caller must hold l.mu.
func (l *MemoryLog) stream(topic string) *memStream {
	st, ok := l.topics[topic]
	if !ok {
		st = &memStream{wake: make(chan struct{})}
		l.topics[topic] = st
	}
	return st
}

// Append stores a copy of fields under a fresh monotonic ID and wakes all
// blocked readers of the topic.
func (l *MemoryLog) Append(_ context.Context, topic string, fields map[string]string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.stream(topic)

	ms := uint64(time.Now().UnixMilli())
	var seq uint64
	if n := len(st.entries); n > 0 {
		last := st.entries[n-1]
		if ms <= last.ms {
			ms = last.ms
			seq = last.seq + 1
		}
	}

	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	id := fmt.Sprintf("%d-%d", ms, seq)
	st.entries = append(st.entries, memEntry{ms: ms, seq: seq, event: Event{ID: id, Fields: copied}})

	close(st.wake)
	st.wake = make(chan struct{})

	return id, nil
}

// ReadFrom returns the events after cursor, blocking per opts when the
// cursor is already at the tail.
func (l *MemoryLog) ReadFrom(ctx context.Context, topic, cursor string, opts ReadOptions) ([]Event, error) {
	ms, seq, err := parseID(cursor)
	if err != nil {
		return nil, err
	}

	count := opts.Count
	if count <= 0 {
		count = DefaultBatchSize
	}

	var timeout <-chan time.Time
	if opts.Block > 0 {
		timer := time.NewTimer(opts.Block)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		l.mu.Lock()
		st := l.stream(topic)
		if events := st.after(ms, seq, count); len(events) > 0 {
			l.mu.Unlock()
			return events, nil
		}
		wake := st.wake
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
			return nil, nil
		case <-wake:
		}
	}
}

// after collects up to count events strictly newer than (ms, seq).
func (st *memStream) after(ms, seq uint64, count int64) []Event {
	i := sort.Search(len(st.entries), func(i int) bool {
		e := st.entries[i]
		return e.ms > ms || (e.ms == ms && e.seq > seq)
	})
	if i == len(st.entries) {
		return nil
	}

	end := i + int(count)
	if end > len(st.entries) {
		end = len(st.entries)
	}
	events := make([]Event, 0, end-i)
	for _, e := range st.entries[i:end] {
		events = append(events, e.event)
	}
	return events
}
