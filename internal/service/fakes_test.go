package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/live"
)

// pubRecorder captures published topics so tests can assert which live
// views were invalidated.
type pubRecorder struct {
	mu     sync.Mutex
	topics []live.Topic
}

func (p *pubRecorder) Publish(topics ...live.Topic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topics...)
}

func (p *pubRecorder) published(topic live.Topic) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.topics {
		if t == topic {
			return true
		}
	}
	return false
}

// fakeStore backs every repository interface in memory.
type fakeStore struct {
	mu           sync.Mutex
	users        []domain.User
	partnerships []domain.Partnership
	requests     []domain.PartnerRequest
	messages     []domain.Message
	workouts     []domain.Workout
	templates    []domain.WorkoutTemplate
	seq          int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) addUser(email, displayName string) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := domain.User{ID: uuid.New(), Email: email, DisplayName: displayName, CreatedAt: time.Now()}
	f.users = append(f.users, u)
	return &u
}

func (f *fakeStore) userRepo() *fakeUserRepo       { return &fakeUserRepo{f} }
func (f *fakeStore) partnerRepo() *fakePartnerRepo { return &fakePartnerRepo{f} }
func (f *fakeStore) messageRepo() *fakeMessageRepo { return &fakeMessageRepo{f} }
func (f *fakeStore) workoutRepo() *fakeWorkoutRepo { return &fakeWorkoutRepo{f} }

func (f *fakeStore) templateRepo() *fakeTemplateRepo { return &fakeTemplateRepo{f} }

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakePartnerRepo struct{ s *fakeStore }

func (r *fakePartnerRepo) CreateRequest(ctx context.Context, req *domain.PartnerRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests = append(r.s.requests, *req)
	return nil
}

func (r *fakePartnerRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.PartnerRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].ID == id {
			req := r.s.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (r *fakePartnerRepo) GetRequestByEmails(ctx context.Context, fromEmail, toEmail string) (*domain.PartnerRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].FromEmail == fromEmail && r.s.requests[i].ToEmail == toEmail {
			req := r.s.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (r *fakePartnerRepo) ListIncomingRequests(ctx context.Context, toEmail string) ([]domain.PartnerRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.PartnerRequest
	for i := range r.s.requests {
		if r.s.requests[i].ToEmail == toEmail {
			out = append(out, r.s.requests[i])
		}
	}
	return out, nil
}

func (r *fakePartnerRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].ID == id {
			r.s.requests = append(r.s.requests[:i], r.s.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePartnerRepo) AcceptRequest(ctx context.Context, requestID uuid.UUID, usernames map[string]string) (*domain.Partnership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].ID != requestID {
			continue
		}
		req := r.s.requests[i]
		r.s.requests = append(r.s.requests[:i], r.s.requests[i+1:]...)

		a, b := req.FromEmail, req.ToEmail
		if b < a {
			a, b = b, a
		}
		pm := domain.Partnership{
			ID:           uuid.New(),
			Participants: [2]string{a, b},
			Usernames:    usernames,
			CreatedAt:    time.Now(),
		}
		r.s.partnerships = append(r.s.partnerships, pm)
		return &pm, nil
	}
	return nil, nil
}

func (r *fakePartnerRepo) GetPartnershipByID(ctx context.Context, id uuid.UUID) (*domain.Partnership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.partnerships {
		if r.s.partnerships[i].ID == id {
			pm := r.s.partnerships[i]
			return &pm, nil
		}
	}
	return nil, nil
}

func (r *fakePartnerRepo) PartnershipBetween(ctx context.Context, emailA, emailB string) (*domain.Partnership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.partnerships {
		pm := r.s.partnerships[i]
		if (pm.Participants[0] == emailA && pm.Participants[1] == emailB) ||
			(pm.Participants[0] == emailB && pm.Participants[1] == emailA) {
			return &pm, nil
		}
	}
	return nil, nil
}

func (r *fakePartnerRepo) ListPartnerships(ctx context.Context, email string) ([]domain.Partnership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Partnership
	for i := range r.s.partnerships {
		if r.s.partnerships[i].Participants[0] == email || r.s.partnerships[i].Participants[1] == email {
			out = append(out, r.s.partnerships[i])
		}
	}
	return out, nil
}

func (r *fakePartnerRepo) DeletePartnership(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.partnerships {
		if r.s.partnerships[i].ID == id {
			r.s.partnerships = append(r.s.partnerships[:i], r.s.partnerships[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeMessageRepo struct{ s *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	msg.CreatedAt = time.Unix(0, r.s.seq)
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListRecent(ctx context.Context, partnershipID uuid.UUID, limit int) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Message
	for i := len(r.s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.messages[i].PartnershipID == partnershipID {
			out = append(out, r.s.messages[i])
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) ListUnread(ctx context.Context, partnershipID, readerID uuid.UUID) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Message
	for i := range r.s.messages {
		m := r.s.messages[i]
		if m.PartnershipID == partnershipID && m.SenderID != readerID && !m.Read {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, partnershipID, readerID uuid.UUID) (int, error) {
	msgs, err := r.ListUnread(ctx, partnershipID, readerID)
	return len(msgs), err
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, ids ...uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range r.s.messages {
		if _, ok := set[r.s.messages[i].ID]; ok {
			r.s.messages[i].Read = true
		}
	}
	return nil
}

type fakeTemplateRepo struct{ s *fakeStore }

func (r *fakeTemplateRepo) Create(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.templates = append(r.s.templates, *tpl)
	return nil
}

func (r *fakeTemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.templates {
		if r.s.templates[i].ID == id {
			tpl := r.s.templates[i]
			return &tpl, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.WorkoutTemplate
	for i := range r.s.templates {
		if r.s.templates[i].UserID == userID {
			out = append(out, r.s.templates[i])
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.templates {
		if r.s.templates[i].ID == tpl.ID {
			r.s.templates[i] = *tpl
			return nil
		}
	}
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.templates {
		if r.s.templates[i].ID == id {
			r.s.templates = append(r.s.templates[:i], r.s.templates[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeWorkoutRepo struct{ s *fakeStore }

func (r *fakeWorkoutRepo) Create(ctx context.Context, w *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.workouts = append(r.s.workouts, *w)
	return nil
}

func (r *fakeWorkoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.workouts {
		if r.s.workouts[i].ID == id {
			w := r.s.workouts[i]
			return &w, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkoutRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Workout
	for i := range r.s.workouts {
		if r.s.workouts[i].UserID == userID {
			out = append(out, r.s.workouts[i])
		}
	}
	return out, nil
}

func (r *fakeWorkoutRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.workouts {
		if r.s.workouts[i].ID == id {
			now := time.Now()
			r.s.workouts[i].Completed = true
			r.s.workouts[i].CompletedAt = &now
			return nil
		}
	}
	return nil
}

func (r *fakeWorkoutRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.workouts {
		if r.s.workouts[i].ID == id {
			r.s.workouts = append(r.s.workouts[:i], r.s.workouts[i+1:]...)
			return nil
		}
	}
	return nil
}
