package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	dErrors "transitbook/pkg/domain-errors"
)

// ErrBufferFull is returned by Emit in async mode when the buffer has no room.
var ErrBufferFull = dErrors.New(dErrors.CodeUnavailable, "event buffer full")

// ErrClosed is returned by Emit after Close.
var ErrClosed = dErrors.New(dErrors.CodeUnavailable, "event publisher closed")

// Publisher fans registry events out to a Sink.
//
// In sync mode Emit writes straight to the sink. With WithAsyncBuffer a single
// worker drains a bounded channel; Emit never blocks and drops the event when
// the buffer is full. Close drains whatever is buffered.
type Publisher struct {
	sink    Sink
	logger  *slog.Logger
	bufSize int

	mu      sync.RWMutex
	closed  bool
	inbox   chan Event
	done    chan struct{}
	dropped atomic.Int64
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize > 0 {
		p.inbox = make(chan Event, p.bufSize)
		p.done = make(chan struct{})
		go p.run()
	}
	return p
}

// Emit stamps the event and hands it to the sink or the buffer.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if p.inbox == nil {
		return p.sink.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "event buffer full, dropping event",
				"event_type", string(event.Type),
			)
		}
		return ErrBufferFull
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close stops accepting events and waits for the buffer to drain.
// It is safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		// The request context is gone by the time the worker runs.
		if err := p.sink.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to deliver event",
				"event_type", string(event.Type),
				"error", err,
			)
		}
	}
}
