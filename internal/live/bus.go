package live

import (
	"context"

	"go.uber.org/zap"
)

// Bus routes topic invalidations to the subscriptions listening on them.
// It is the in-process stand-in for a document store's push channel: it
// carries no data, only "something matching your query changed" signals.
type Bus struct {
	// listeners maps topic → the listeners woken by its invalidation.
	listeners map[Topic]map[*listener]struct{}

	register   chan *listener
	unregister chan *listener
	invalidate chan Topic

	done   chan struct{}
	logger *zap.Logger
}

// listener is one subscription's wake handle. The wake channel has
// capacity 1 so bursts of invalidations coalesce into a single refetch.
type listener struct {
	topic Topic
	wake  chan struct{}
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		listeners:  make(map[Topic]map[*listener]struct{}),
		register:   make(chan *listener),
		unregister: make(chan *listener),
		invalidate: make(chan Topic, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the Bus's main event loop and blocks until ctx is cancelled.
// Call this in a goroutine before opening any subscription.
func (b *Bus) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return

		case l := <-b.register:
			set, ok := b.listeners[l.topic]
			if !ok {
				set = make(map[*listener]struct{})
				b.listeners[l.topic] = set
			}
			set[l] = struct{}{}

		case l := <-b.unregister:
			if set, ok := b.listeners[l.topic]; ok {
				delete(set, l)
				if len(set) == 0 {
					delete(b.listeners, l.topic)
				}
			}

		case t := <-b.invalidate:
			for l := range b.listeners[t] {
				select {
				case l.wake <- struct{}{}:
				default:
					// a refetch is already pending, nothing to add
				}
			}
		}
	}
}

// Publish queues invalidations for every subscription on the given topics.
func (b *Bus) Publish(topics ...Topic) {
	for _, t := range topics {
		select {
		case b.invalidate <- t:
		case <-b.done:
			return
		}
	}
}

func (b *Bus) add(l *listener) {
	select {
	case b.register <- l:
	case <-b.done:
	}
}

func (b *Bus) remove(l *listener) {
	select {
	case b.unregister <- l:
	case <-b.done:
	}
}
