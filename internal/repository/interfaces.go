package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
)

var (
	// ErrPermissionDenied maps the store's access-rule rejections. Callers
	// performing best-effort writes swallow it.
	ErrPermissionDenied = errors.New("permission denied by store")

	// ErrDuplicateRequest and ErrDuplicatePartnership surface uniqueness
	// violations so the race between check and write cannot create
	// duplicates.
	ErrDuplicateRequest     = errors.New("duplicate partner request")
	ErrDuplicatePartnership = errors.New("duplicate partnership")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PartnerRepository interface {
	CreateRequest(ctx context.Context, req *domain.PartnerRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.PartnerRequest, error)
	GetRequestByEmails(ctx context.Context, fromEmail, toEmail string) (*domain.PartnerRequest, error)
	ListIncomingRequests(ctx context.Context, toEmail string) ([]domain.PartnerRequest, error)
	DeleteRequest(ctx context.Context, id uuid.UUID) error
	// AcceptRequest atomically creates the partnership and deletes the
	// request in a single transaction.
	AcceptRequest(ctx context.Context, requestID uuid.UUID, usernames map[string]string) (*domain.Partnership, error)
	GetPartnershipByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error)
	PartnershipBetween(ctx context.Context, emailA, emailB string) (*domain.Partnership, error)
	ListPartnerships(ctx context.Context, email string) ([]domain.Partnership, error)
	DeletePartnership(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	// Create persists the message; the creation timestamp is assigned by
	// the store and written back into msg.
	Create(ctx context.Context, msg *domain.Message) error
	// ListRecent returns up to limit messages, newest first.
	ListRecent(ctx context.Context, partnershipID uuid.UUID, limit int) ([]domain.Message, error)
	// ListUnread returns unread messages addressed to readerID, i.e. whose
	// sender is someone else.
	ListUnread(ctx context.Context, partnershipID, readerID uuid.UUID) ([]domain.Message, error)
	CountUnread(ctx context.Context, partnershipID, readerID uuid.UUID) (int, error)
	// MarkRead sets read=true on all given messages in one atomic write.
	// Re-applying it to already-read messages is a no-op.
	MarkRead(ctx context.Context, ids ...uuid.UUID) error
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.WorkoutTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutTemplate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutTemplate, error)
	// Update replaces the stored template wholesale, exercises included.
	Update(ctx context.Context, tpl *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WorkoutRepository interface {
	Create(ctx context.Context, w *domain.Workout) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workout, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
