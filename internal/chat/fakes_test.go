package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
)

// fakeStore is an in-memory stand-in for the partner and message
// repositories. Messages get monotonic timestamps so window ordering is
// deterministic.
type fakeStore struct {
	mu           sync.Mutex
	partnerships []domain.Partnership
	requests     []domain.PartnerRequest
	messages     []domain.Message
	markReadErr  error
	seq          int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) addPartnership(emailA, emailB string, usernames map[string]string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if emailB < emailA {
		emailA, emailB = emailB, emailA
	}
	pm := domain.Partnership{
		ID:           uuid.New(),
		Participants: [2]string{emailA, emailB},
		Usernames:    usernames,
		CreatedAt:    time.Now(),
	}
	f.partnerships = append(f.partnerships, pm)
	return pm.ID
}

func (f *fakeStore) addMessage(partnershipID, senderID uuid.UUID, text string, read bool) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg := domain.Message{
		ID:            uuid.New(),
		PartnershipID: partnershipID,
		SenderID:      senderID,
		Text:          text,
		Read:          read,
		CreatedAt:     time.Unix(0, f.seq),
	}
	f.messages = append(f.messages, msg)
	return msg.ID
}

func (f *fakeStore) unreadIn(partnershipID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.messages {
		if f.messages[i].PartnershipID == partnershipID && !f.messages[i].Read {
			n++
		}
	}
	return n
}

// --- PartnerRepository ---

func (f *fakeStore) CreateRequest(ctx context.Context, req *domain.PartnerRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, *req)
	return nil
}

func (f *fakeStore) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.PartnerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requests {
		if f.requests[i].ID == id {
			req := f.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetRequestByEmails(ctx context.Context, fromEmail, toEmail string) (*domain.PartnerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requests {
		if f.requests[i].FromEmail == fromEmail && f.requests[i].ToEmail == toEmail {
			req := f.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListIncomingRequests(ctx context.Context, toEmail string) ([]domain.PartnerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PartnerRequest
	for i := range f.requests {
		if f.requests[i].ToEmail == toEmail {
			out = append(out, f.requests[i])
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.requests {
		if f.requests[i].ID == id {
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) AcceptRequest(ctx context.Context, requestID uuid.UUID, usernames map[string]string) (*domain.Partnership, error) {
	f.mu.Lock()
	var req *domain.PartnerRequest
	for i := range f.requests {
		if f.requests[i].ID == requestID {
			r := f.requests[i]
			req = &r
			f.requests = append(f.requests[:i], f.requests[i+1:]...)
			break
		}
	}
	f.mu.Unlock()
	if req == nil {
		return nil, nil
	}
	id := f.addPartnership(req.FromEmail, req.ToEmail, usernames)
	return f.GetPartnershipByID(ctx, id)
}

func (f *fakeStore) GetPartnershipByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.partnerships {
		if f.partnerships[i].ID == id {
			pm := f.partnerships[i]
			return &pm, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) PartnershipBetween(ctx context.Context, emailA, emailB string) (*domain.Partnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.partnerships {
		pm := f.partnerships[i]
		if (pm.Participants[0] == emailA && pm.Participants[1] == emailB) ||
			(pm.Participants[0] == emailB && pm.Participants[1] == emailA) {
			return &pm, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListPartnerships(ctx context.Context, email string) ([]domain.Partnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Partnership
	for i := range f.partnerships {
		if f.partnerships[i].Participants[0] == email || f.partnerships[i].Participants[1] == email {
			out = append(out, f.partnerships[i])
		}
	}
	return out, nil
}

func (f *fakeStore) DeletePartnership(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.partnerships {
		if f.partnerships[i].ID == id {
			f.partnerships = append(f.partnerships[:i], f.partnerships[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- MessageRepository ---

func (f *fakeStore) Create(ctx context.Context, msg *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.CreatedAt = time.Unix(0, f.seq)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, partnershipID uuid.UUID, limit int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].PartnershipID == partnershipID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListUnread(ctx context.Context, partnershipID, readerID uuid.UUID) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for i := range f.messages {
		m := f.messages[i]
		if m.PartnershipID == partnershipID && m.SenderID != readerID && !m.Read {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) CountUnread(ctx context.Context, partnershipID, readerID uuid.UUID) (int, error) {
	msgs, err := f.ListUnread(ctx, partnershipID, readerID)
	return len(msgs), err
}

func (f *fakeStore) MarkRead(ctx context.Context, ids ...uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markReadErr != nil {
		return f.markReadErr
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range f.messages {
		if _, ok := set[f.messages[i].ID]; ok {
			f.messages[i].Read = true
		}
	}
	return nil
}
