// Package eventlog provides the append-only, per-topic event logs the
// services communicate through. Each topic is an independent ordered
// stream; cross-topic ordering is never recorded.
package eventlog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Topics used by the order choreography.
const (
	TopicOrders       = "orders"
	TopicInventory    = "inventory"
	TopicPayments     = "payments"
	TopicOrderUpdates = "order_updates"
)

// StartCursor is the beginning-of-log sentinel. A consumer reading from it
// sees every event ever appended to the topic.
const StartCursor = "0-0"

// DefaultBatchSize is the number of events returned per read when the
// caller doesn't ask for a specific count.
const DefaultBatchSize = 10

// Event is one immutable entry in a topic. ID is monotonic within the
// topic and string-sortable (<unix-ms>-<seq>, the Redis stream ID shape).
// Fields are flat string values; list-valued payloads are JSON-encoded by
// the producer.
type Event struct {
	ID     string
	Fields map[string]string
}

// ReadOptions controls a blocking read.
//
// Block == 0 blocks until at least one event exists past the cursor.
// Block > 0 returns an empty batch once the interval elapses with no new
// events. Count caps the batch size (DefaultBatchSize when <= 0).
type ReadOptions struct {
	Block time.Duration
	Count int64
}

// Log is an append-only event log. Reads are non-destructive: any number
// of independent cursors may scan the same topic from arbitrary positions,
// and the log is never truncated.
type Log interface {
	// Append writes one event and returns its ID. Once Append returns,
	// the event is visible to every subsequent read.
	Append(ctx context.Context, topic string, fields map[string]string) (string, error)

	// ReadFrom returns the events after cursor, in append order.
	ReadFrom(ctx context.Context, topic, cursor string, opts ReadOptions) ([]Event, error)
}

// parseID splits a stream ID (or cursor) into its numeric parts. A bare
// number is accepted as "<n>-0", matching Redis cursor syntax.
func parseID(id string) (ms, seq uint64, err error) {
	msPart, seqPart, found := strings.Cut(id, "-")
	ms, err = strconv.ParseUint(msPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid stream ID %q", id)
	}
	if !found {
		return ms, 0, nil
	}
	seq, err = strconv.ParseUint(seqPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid stream ID %q", id)
	}
	return ms, seq, nil
}
