package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/chat"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection backed by one live
// session.
type Client struct {
	conn    *websocket.Conn
	session *chat.Session
	userID  uuid.UUID
	logger  *zap.Logger

	send   chan []byte
	cancel context.CancelFunc
}

func NewClient(conn *websocket.Conn, session *chat.Session, userID uuid.UUID, cancel context.CancelFunc, logger *zap.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		userID:  userID,
		logger:  logger,
		send:    make(chan []byte, sendBufSize),
		cancel:  cancel,
	}
}

// ReadPump reads events from the WebSocket and routes them to the session.
// When it returns, the session context is cancelled and every subscription
// the session opened is torn down.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.session.Close()
		c.cancel()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.logger.Info("ws: client disconnected", zap.String("user_id", c.userID.String()))
			} else if ctx.Err() == nil {
				c.logger.Warn("ws: read error", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}

		c.handleEvent(ctx, &event)
	}
}

// WritePump writes queued frames to the WebSocket and pings on an
// interval.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(wctx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// EventPump translates session events into wire frames. It exits when the
// session's event stream closes.
func (c *Client) EventPump(ctx context.Context) {
	defer c.cancel()

	for event := range c.session.Events() {
		var (
			evt *Event
			err error
		)
		switch event.Type {
		case chat.EventPartners:
			evt, err = NewEvent(EventTypePartnersSnapshot, event.Partners)
		case chat.EventRequests:
			evt, err = NewEvent(EventTypeRequestsSnapshot, event.Requests)
		case chat.EventUnread:
			evt, err = NewEvent(EventTypeUnreadCount, event.Unread)
		case chat.EventConversation:
			evt, err = NewEvent(EventTypeConversationSnapshot, event.Conversation)
		default:
			continue
		}
		if err != nil {
			c.logger.Error("ws: marshal event failed", zap.Error(err))
			continue
		}

		data, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		select {
		case c.send <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) handleEvent(ctx context.Context, event *Event) {
	switch event.Type {
	case EventTypePartnerSelect:
		var p PartnerSelectPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.PartnershipID == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "invalid partner.select payload")
			return
		}
		c.session.SelectPartner(p.PartnershipID)

	case EventTypeMessageSend:
		var p MessageSendPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.PartnershipID == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "invalid message.send payload")
			return
		}
		if err := c.session.SendMessage(ctx, p.PartnershipID, p.Text); err != nil {
			if errors.Is(err, chat.ErrEmptyMessage) {
				c.sendError("EMPTY_MESSAGE", "message text is required")
			} else {
				c.logger.Error("ws: send message failed",
					zap.String("user_id", c.userID.String()), zap.Error(err))
				c.sendError("INTERNAL", "could not send message")
			}
		}

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
