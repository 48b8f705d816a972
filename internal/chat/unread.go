package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

// UnreadCount is one partner's live unread tally.
type UnreadCount struct {
	PartnershipID uuid.UUID `json:"partnership_id"`
	Count         int       `json:"count"`
}

// UnreadTracker keeps one live count subscription per known partner. The
// count is always the store's answer to the unread query; nothing is
// incremented or decremented client-side, so the tally cannot drift.
type UnreadTracker struct {
	bus    *live.Bus
	repo   repository.MessageRepository
	id     Identity
	logger *zap.Logger

	counts chan UnreadCount
	done   chan struct{}
	once   sync.Once
	subs   []*live.Subscription[int]
}

func NewUnreadTracker(bus *live.Bus, repo repository.MessageRepository, id Identity, logger *zap.Logger) *UnreadTracker {
	return &UnreadTracker{
		bus:    bus,
		repo:   repo,
		id:     id,
		logger: logger,
		counts: make(chan UnreadCount, 16),
		done:   make(chan struct{}),
	}
}

// SetPartners tears down every per-partner subscription and opens a fresh
// one per current partner. A full resubscribe, not a diff: partner sets
// change rarely compared to messages.
func (t *UnreadTracker) SetPartners(ctx context.Context, partners []domain.Partner) {
	for _, sub := range t.subs {
		sub.Stop()
	}
	t.subs = t.subs[:0]

	for _, p := range partners {
		pid := p.ID
		sub := live.Subscribe(ctx, t.bus, live.MessagesTopic(pid),
			func(ctx context.Context) (int, error) {
				return t.repo.CountUnread(ctx, pid, t.id.UserID)
			}, t.logger)
		t.subs = append(t.subs, sub)
		go t.forward(pid, sub)
	}
}

// Counts returns the merged stream of per-partner counts. A partner may
// appear in the directory before its first count arrives here; treat the
// missing value as zero.
func (t *UnreadTracker) Counts() <-chan UnreadCount {
	return t.counts
}

func (t *UnreadTracker) Close() {
	t.once.Do(func() {
		for _, sub := range t.subs {
			sub.Stop()
		}
		t.subs = nil
		close(t.done)
	})
}

func (t *UnreadTracker) forward(pid uuid.UUID, sub *live.Subscription[int]) {
	for n := range sub.Updates() {
		select {
		case t.counts <- UnreadCount{PartnershipID: pid, Count: n}:
		case <-t.done:
			return
		}
	}
}
