package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/chat"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message text is empty")

type MessageService struct {
	messageRepo repository.MessageRepository
	partnerRepo repository.PartnerRepository
	userRepo    repository.UserRepository
	pub         live.Publisher
	logger      *zap.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, partnerRepo repository.PartnerRepository, userRepo repository.UserRepository, pub live.Publisher, logger *zap.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		partnerRepo: partnerRepo,
		userRepo:    userRepo,
		pub:         pub,
		logger:      logger,
	}
}

// Send writes one message with read=false and a store-assigned timestamp.
func (s *MessageService) Send(ctx context.Context, userID, partnershipID uuid.UUID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	user, err := s.checkParticipant(ctx, userID, partnershipID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:            uuid.New(),
		PartnershipID: partnershipID,
		SenderID:      userID,
		DisplayName:   user.Name(),
		Text:          text,
		Read:          false,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.pub.Publish(live.MessagesTopic(partnershipID))
	return msg, nil
}

// Window returns the conversation window: up to chat.WindowSize most
// recent messages in ascending chronological order.
func (s *MessageService) Window(ctx context.Context, userID, partnershipID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.checkParticipant(ctx, userID, partnershipID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListRecent(ctx, partnershipID, chat.WindowSize)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}

// UnreadCount returns the store's current unread tally for the user in
// this partnership.
func (s *MessageService) UnreadCount(ctx context.Context, userID, partnershipID uuid.UUID) (int, error) {
	if _, err := s.checkParticipant(ctx, userID, partnershipID); err != nil {
		return 0, err
	}
	return s.messageRepo.CountUnread(ctx, partnershipID, userID)
}

func (s *MessageService) checkParticipant(ctx context.Context, userID, partnershipID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pm, err := s.partnerRepo.GetPartnershipByID(ctx, partnershipID)
	if err != nil {
		return nil, err
	}
	if pm == nil {
		return nil, ErrPartnershipNotFound
	}
	if pm.Participants[0] != user.Email && pm.Participants[1] != user.Email {
		return nil, ErrNotParticipant
	}
	return user, nil
}
