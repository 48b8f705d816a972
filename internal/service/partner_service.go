package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
	"github.com/markod/fitlink/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCannotRequestSelf   = errors.New("cannot send a partner request to yourself")
	ErrRequestAlreadySent  = errors.New("request already sent")
	ErrAlreadyPartners     = errors.New("already partners")
	ErrRequestNotFound     = errors.New("partner request not found")
	ErrNotRequestRecipient = errors.New("only the request recipient can perform this action")
	ErrPartnershipNotFound = errors.New("partnership not found")
	ErrNotParticipant      = errors.New("you are not a participant of this partnership")
)

type PartnerService struct {
	partnerRepo repository.PartnerRepository
	userRepo    repository.UserRepository
	pub         live.Publisher
	logger      *zap.Logger
}

func NewPartnerService(partnerRepo repository.PartnerRepository, userRepo repository.UserRepository, pub live.Publisher, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		userRepo:    userRepo,
		pub:         pub,
		logger:      logger,
	}
}

// SendRequest invites another user by email. All three rejection checks
// (target exists, no identical pending request, not already partners) run
// before anything is written; the unique indexes catch the races the
// checks cannot.
func (s *PartnerService) SendRequest(ctx context.Context, senderID uuid.UUID, toEmail string) (*domain.PartnerRequest, error) {
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrUserNotFound
	}

	toEmail = strings.ToLower(strings.TrimSpace(toEmail))
	if toEmail == sender.Email {
		return nil, ErrCannotRequestSelf
	}

	target, err := s.userRepo.GetByEmail(ctx, toEmail)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.partnerRepo.GetRequestByEmails(ctx, sender.Email, toEmail)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRequestAlreadySent
	}

	pm, err := s.partnerRepo.PartnershipBetween(ctx, sender.Email, toEmail)
	if err != nil {
		return nil, err
	}
	if pm != nil {
		return nil, ErrAlreadyPartners
	}

	req := &domain.PartnerRequest{
		ID:           uuid.New(),
		FromEmail:    sender.Email,
		FromUsername: sender.Name(),
		ToEmail:      toEmail,
		Status:       "pending",
		CreatedAt:    time.Now(),
	}
	if err := s.partnerRepo.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateRequest) {
			return nil, ErrRequestAlreadySent
		}
		return nil, fmt.Errorf("creating partner request: %w", err)
	}

	s.pub.Publish(live.RequestsTopic(toEmail))
	return req, nil
}

// AcceptRequest turns a pending request into a partnership. The create
// and the request delete happen in one transaction in the repository, so a
// crash can never leave a re-acceptable request behind.
func (s *PartnerService) AcceptRequest(ctx context.Context, userID, requestID uuid.UUID) (*domain.Partnership, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	req, err := s.partnerRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.ToEmail != user.Email {
		return nil, ErrNotRequestRecipient
	}

	usernames := map[string]string{
		user.Email:    user.Name(),
		req.FromEmail: req.FromUsername,
	}

	pm, err := s.partnerRepo.AcceptRequest(ctx, requestID, usernames)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePartnership) {
			return nil, ErrAlreadyPartners
		}
		return nil, fmt.Errorf("accepting partner request: %w", err)
	}
	if pm == nil {
		return nil, ErrRequestNotFound
	}

	s.pub.Publish(
		live.PartnershipsTopic(pm.Participants[0]),
		live.PartnershipsTopic(pm.Participants[1]),
		live.RequestsTopic(user.Email),
	)
	return pm, nil
}

// RejectRequest deletes a pending request. Rejecting one that is already
// gone is a no-op, so a double-click never surfaces an error.
func (s *PartnerService) RejectRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	req, err := s.partnerRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	if req.ToEmail != user.Email {
		return ErrNotRequestRecipient
	}

	if err := s.partnerRepo.DeleteRequest(ctx, requestID); err != nil {
		return err
	}
	s.pub.Publish(live.RequestsTopic(user.Email))
	return nil
}

// DeletePartnership removes the pairing; it disappears from both
// participants' live views on their next snapshot.
func (s *PartnerService) DeletePartnership(ctx context.Context, userID, partnershipID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	pm, err := s.partnerRepo.GetPartnershipByID(ctx, partnershipID)
	if err != nil {
		return err
	}
	if pm == nil {
		return nil
	}
	if pm.Participants[0] != user.Email && pm.Participants[1] != user.Email {
		return ErrNotParticipant
	}

	if err := s.partnerRepo.DeletePartnership(ctx, partnershipID); err != nil {
		return err
	}
	s.pub.Publish(
		live.PartnershipsTopic(pm.Participants[0]),
		live.PartnershipsTopic(pm.Participants[1]),
	)
	return nil
}

// ListPartners returns the user's accepted partners as projections.
func (s *PartnerService) ListPartners(ctx context.Context, userID uuid.UUID) ([]domain.Partner, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pms, err := s.partnerRepo.ListPartnerships(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	partners := make([]domain.Partner, 0, len(pms))
	for i := range pms {
		partners = append(partners, pms[i].PartnerFor(user.Email))
	}
	return partners, nil
}

// ListIncomingRequests returns pending requests addressed to the user.
func (s *PartnerService) ListIncomingRequests(ctx context.Context, userID uuid.UUID) ([]domain.PartnerRequest, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	reqs, err := s.partnerRepo.ListIncomingRequests(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.PartnerRequest{}
	}
	return reqs, nil
}
