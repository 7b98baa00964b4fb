// Package consumer contains the per-topic consumer loop and the service
// handlers it drives: inventory reservation, payment processing,
// notification dispatch and the order service's status listener.
package consumer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Chauhan48/event-driven-orders-microservice/internal/eventlog"
)

// HandlerFunc processes one event. A nil return means the event was
// handled or deliberately skipped; an error is logged at the loop
// boundary and the event is not retried.
type HandlerFunc func(ctx context.Context, ev eventlog.Event) error

// readRetryDelay spaces out polls after a failed read so a dead broker
// isn't hammered in a tight loop.
const readRetryDelay = time.Second

// Loop drives one handler against one topic forever. The cursor is
// private to the loop and starts at the beginning-of-log sentinel;
// delivery is at-most-once within a process lifetime, and a restarted
// loop replays the topic from the start.
type Loop struct {
	log     eventlog.Log
	topic   string
	cursor  string
	block   time.Duration
	count   int64
	handler HandlerFunc
	logger  *zap.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithBlock bounds each blocking read. Zero (the default) blocks until
// an event arrives.
func WithBlock(d time.Duration) Option {
	return func(l *Loop) { l.block = d }
}

// WithBatchSize caps the events fetched per read.
func WithBatchSize(n int64) Option {
	return func(l *Loop) { l.count = n }
}

func NewLoop(log eventlog.Log, topic string, handler HandlerFunc, logger *zap.Logger, opts ...Option) *Loop {
	l := &Loop{
		log:     log,
		topic:   topic,
		cursor:  eventlog.StartCursor,
		handler: handler,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cursor returns the ID of the last event the loop consumed.
func (l *Loop) Cursor() string {
	return l.cursor
}

// Run polls the topic until the context is cancelled. The cursor moves
// past every delivered event before its handler runs, so a failing or
// panicking handler never causes a redelivery.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("consumer loop started", zap.String("topic", l.topic))

	for {
		if ctx.Err() != nil {
			l.logger.Info("consumer loop stopped", zap.String("topic", l.topic))
			return
		}

		events, err := l.log.ReadFrom(ctx, l.topic, l.cursor, eventlog.ReadOptions{
			Block: l.block,
			Count: l.count,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			l.logger.Error("read failed", zap.String("topic", l.topic), zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(readRetryDelay):
			}
			continue
		}

		for _, ev := range events {
			l.cursor = ev.ID
			l.dispatch(ctx, ev)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, ev eventlog.Event) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("handler panicked",
				zap.String("topic", l.topic),
				zap.String("eventId", ev.ID),
				zap.Any("panic", r))
		}
	}()

	if err := l.handler(ctx, ev); err != nil {
		l.logger.Error("handler failed",
			zap.String("topic", l.topic),
			zap.String("eventId", ev.ID),
			zap.Error(err))
	}
}
