package live

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// FetchFunc loads the current result set of a subscription's query.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Subscription is a live query: it delivers a full snapshot on open and a
// fresh one after every invalidation of its topic. Delivery is
// latest-wins: a slow consumer only ever sees the newest snapshot, never a
// backlog of stale ones.
type Subscription[T any] struct {
	bus    *Bus
	l      *listener
	fetch  FetchFunc[T]
	logger *zap.Logger

	updates chan T
	stopped chan struct{}
	once    sync.Once
}

// Subscribe opens a live query on the given topic. The returned
// subscription must be stopped when its consumer goes away or before a
// replacement is opened for a new key; leaking it leaks a listener.
func Subscribe[T any](ctx context.Context, bus *Bus, topic Topic, fetch FetchFunc[T], logger *zap.Logger) *Subscription[T] {
	s := &Subscription[T]{
		bus:     bus,
		l:       &listener{topic: topic, wake: make(chan struct{}, 1)},
		fetch:   fetch,
		logger:  logger,
		updates: make(chan T, 1),
		stopped: make(chan struct{}),
	}
	bus.add(s.l)
	go s.run(ctx)
	return s
}

// Updates returns the snapshot channel. It is closed once the subscription
// stops or its context is cancelled.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Stop unsubscribes from the bus and ends snapshot delivery. Safe to call
// more than once.
func (s *Subscription[T]) Stop() {
	s.once.Do(func() {
		s.bus.remove(s.l)
		close(s.stopped)
	})
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer close(s.updates)
	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopped:
			return
		case <-s.l.wake:
			s.refresh(ctx)
		}
	}
}

// refresh re-runs the query and delivers the snapshot, replacing an
// undelivered older one. A failed fetch keeps the last delivered snapshot;
// the next invalidation retries.
func (s *Subscription[T]) refresh(ctx context.Context) {
	snap, err := s.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("live: refresh failed, keeping last snapshot",
				zap.String("topic", string(s.l.topic)), zap.Error(err))
		}
		return
	}
	for {
		select {
		case s.updates <- snap:
			return
		case <-s.stopped:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
