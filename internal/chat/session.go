package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message text is empty")

type EventType string

const (
	EventPartners     EventType = "partners"
	EventRequests     EventType = "requests"
	EventUnread       EventType = "unread"
	EventConversation EventType = "conversation"
)

// Window is a conversation snapshot: up to WindowSize messages in
// ascending chronological order.
type Window struct {
	PartnershipID uuid.UUID        `json:"partnership_id"`
	Messages      []domain.Message `json:"messages"`
}

// Event is one update pushed to the session's consumer. Exactly one field
// matching Type is set.
type Event struct {
	Type         EventType
	Partners     []domain.Partner
	Requests     []domain.PartnerRequest
	Unread       *UnreadCount
	Conversation *Window
}

// Session ties the live components together for one signed-in user: the
// partner directory, per-partner unread counts, and the window of the
// currently selected conversation. A single event loop owns all selection
// state, so "concurrency" inside a session is interleaving, never data
// races.
type Session struct {
	id       Identity
	bus      *live.Bus
	pub      live.Publisher
	partners repository.PartnerRepository
	messages repository.MessageRepository
	logger   *zap.Logger

	directory *Directory
	unread    *UnreadTracker

	commands chan uuid.UUID
	events   chan Event
	done     chan struct{}
	once     sync.Once
}

// OpenSession starts the event loop. Callers must Close the session when
// the user goes away; that tears down every subscription it opened.
func OpenSession(ctx context.Context, bus *live.Bus, pub live.Publisher, partners repository.PartnerRepository, messages repository.MessageRepository, id Identity, logger *zap.Logger) *Session {
	s := &Session{
		id:       id,
		bus:      bus,
		pub:      pub,
		partners: partners,
		messages: messages,
		logger:   logger,
		commands: make(chan uuid.UUID, 8),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
	}
	s.directory = OpenDirectory(ctx, bus, partners, id, logger)
	s.unread = NewUnreadTracker(bus, messages, id, logger)
	go s.run(ctx)
	return s
}

// Events returns the session's outbound stream. Closed when the session
// ends.
func (s *Session) Events() <-chan Event {
	return s.events
}

// SelectPartner activates a conversation. The unread badge for that
// partner is zeroed optimistically before any store round trip; the
// backlog reconciliation runs in the background and is never rolled back.
func (s *Session) SelectPartner(partnershipID uuid.UUID) {
	select {
	case s.commands <- partnershipID:
	case <-s.done:
	}
}

// SendMessage validates and writes one message with read=false and a
// store-assigned timestamp. Errors are returned to the caller so the
// transport can report them without clearing the user's input.
func (s *Session) SendMessage(ctx context.Context, partnershipID uuid.UUID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	msg := &domain.Message{
		ID:            uuid.New(),
		PartnershipID: partnershipID,
		SenderID:      s.id.UserID,
		DisplayName:   s.id.Name(),
		Text:          text,
		Read:          false,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	s.pub.Publish(live.MessagesTopic(partnershipID))
	return nil
}

func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *Session) run(ctx context.Context) {
	var (
		conv   *Conversation
		window <-chan []domain.Message
	)

	defer func() {
		if conv != nil {
			conv.Close()
		}
		s.unread.Close()
		s.directory.Close()
		close(s.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return

		case pid := <-s.commands:
			// Optimistic: silence the badge before any round trip.
			s.emit(ctx, Event{Type: EventUnread, Unread: &UnreadCount{PartnershipID: pid}})

			// Last-write-wins on the window slot: the old subscription is
			// torn down with no final-snapshot guarantee.
			if conv != nil {
				conv.Close()
			}
			conv = OpenConversation(ctx, s.bus, s.messages, s.pub, s.id, pid, s.logger)
			window = conv.Window()

			go s.reconcile(ctx, pid)

		case partners, ok := <-s.directory.Partners():
			if !ok {
				return
			}
			s.unread.SetPartners(ctx, partners)
			s.emit(ctx, Event{Type: EventPartners, Partners: partners})

		case requests, ok := <-s.directory.Requests():
			if !ok {
				return
			}
			s.emit(ctx, Event{Type: EventRequests, Requests: requests})

		case count := <-s.unread.Counts():
			c := count
			s.emit(ctx, Event{Type: EventUnread, Unread: &c})

		case msgs, ok := <-window:
			if !ok {
				window = nil
				continue
			}
			s.emit(ctx, Event{Type: EventConversation, Conversation: &Window{
				PartnershipID: conv.PartnershipID,
				Messages:      msgs,
			}})
		}
	}
}

// emit hands one event to the consumer. It gives up when the session or
// its context ends, so a consumer that stopped reading cannot wedge the
// event loop.
func (s *Session) emit(ctx context.Context, e Event) {
	select {
	case s.events <- e:
	case <-ctx.Done():
	case <-s.done:
	}
}

// reconcile is the background half of partner selection: a one-shot read
// of the unread backlog, then a single atomic batched update. An empty
// backlog short-circuits without a write.
func (s *Session) reconcile(ctx context.Context, partnershipID uuid.UUID) {
	backlog, err := s.messages.ListUnread(ctx, partnershipID, s.id.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrPermissionDenied) && ctx.Err() == nil {
			s.logger.Error("chat: unread reconcile failed",
				zap.String("partnership_id", partnershipID.String()), zap.Error(err))
		}
		return
	}
	if len(backlog) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(backlog))
	for i := range backlog {
		ids[i] = backlog[i].ID
	}
	markRead(ctx, s.messages, s.pub, s.logger, partnershipID, ids)
}
