package chat

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

// WindowSize caps a conversation at the 50 most recent messages. Older
// history is not retrievable through the window; that bound is the design.
const WindowSize = 50

// Conversation is the live message window for one partnership. Snapshots
// arrive newest-first from the store and are delivered oldest-first for
// display. Inbound unread messages observed in a snapshot are marked read
// as a fire-and-forget side effect.
type Conversation struct {
	PartnershipID uuid.UUID

	sub *live.Subscription[[]domain.Message]
}

func OpenConversation(ctx context.Context, bus *live.Bus, repo repository.MessageRepository, pub live.Publisher, id Identity, partnershipID uuid.UUID, logger *zap.Logger) *Conversation {
	sub := live.Subscribe(ctx, bus, live.MessagesTopic(partnershipID),
		func(ctx context.Context) ([]domain.Message, error) {
			msgs, err := repo.ListRecent(ctx, partnershipID, WindowSize)
			if err != nil {
				return nil, err
			}

			var unread []uuid.UUID
			for i := range msgs {
				if msgs[i].SenderID != id.UserID && !msgs[i].Read {
					unread = append(unread, msgs[i].ID)
				}
			}
			if len(unread) > 0 {
				go markRead(ctx, repo, pub, logger, partnershipID, unread)
			}

			slices.Reverse(msgs)
			return msgs, nil
		}, logger)

	return &Conversation{PartnershipID: partnershipID, sub: sub}
}

// Window returns the snapshot channel: up to WindowSize messages in
// ascending chronological order.
func (c *Conversation) Window() <-chan []domain.Message {
	return c.sub.Updates()
}

func (c *Conversation) Close() {
	c.sub.Stop()
}

// markRead is a best-effort side effect, separate from any primary result.
// Permission denials are expected under restrictive store rules and are
// swallowed with a warning; other failures are logged and likewise not
// retried. The live subscriptions correct any visible discrepancy on their
// next snapshot. Re-applying it to already-read messages is a no-op.
func markRead(ctx context.Context, repo repository.MessageRepository, pub live.Publisher, logger *zap.Logger, partnershipID uuid.UUID, ids []uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	if err := repo.MarkRead(ctx, ids...); err != nil {
		if errors.Is(err, repository.ErrPermissionDenied) {
			logger.Warn("chat: unable to mark messages read",
				zap.String("partnership_id", partnershipID.String()))
		} else if ctx.Err() == nil {
			logger.Error("chat: mark read failed",
				zap.String("partnership_id", partnershipID.String()), zap.Error(err))
		}
		return
	}
	pub.Publish(live.MessagesTopic(partnershipID))
}
