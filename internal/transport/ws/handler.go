package ws

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/chat"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket and opens a
// live session for the authenticated user. Auth is done via ?token=xxx
// query param (WebSocket can't send headers).
func ServeWS(bus *live.Bus, pub live.Publisher, userRepo repository.UserRepository, partnerRepo repository.PartnerRepository, messageRepo repository.MessageRepository, jwtSecret string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := userRepo.GetByID(r.Context(), userID)
		if err != nil || user == nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Warn("ws: accept failed", zap.Error(err))
			return
		}

		// The session outlives the HTTP request, so it gets its own
		// context rather than r.Context().
		ctx, cancel := context.WithCancel(context.Background())

		id := chat.Identity{UserID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
		session := chat.OpenSession(ctx, bus, pub, partnerRepo, messageRepo, id, logger)

		client := NewClient(conn, session, user.ID, cancel, logger)
		go client.WritePump(ctx)
		go client.EventPump(ctx)
		go client.ReadPump(ctx)
	}
}

func validateToken(tokenStr, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(sub)
}
