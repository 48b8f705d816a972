package domain

import (
	"time"

	"github.com/google/uuid"
)

// PartnerRequest is a pending one-directional invitation to form a
// Partnership. Its existence is its state: accepting or rejecting deletes
// it rather than archiving it.
type PartnerRequest struct {
	ID           uuid.UUID `json:"id"`
	FromEmail    string    `json:"from_email"`
	FromUsername string    `json:"from_username"`
	ToEmail      string    `json:"to_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Partnership is a symmetric accepted pairing between two users. The two
// participant emails are distinct and stored in canonical order; usernames
// maps each participant email to their display name.
type Partnership struct {
	ID           uuid.UUID         `json:"id"`
	Participants [2]string         `json:"participants"`
	Usernames    map[string]string `json:"usernames"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Other returns the participant email that is not the given one.
func (p *Partnership) Other(email string) string {
	if p.Participants[0] == email {
		return p.Participants[1]
	}
	return p.Participants[0]
}

// PartnerFor projects the partnership into a Partner record as seen by the
// given participant: the other side's email and display name, falling back
// to the email when no name is recorded.
func (p *Partnership) PartnerFor(email string) Partner {
	other := p.Other(email)
	username := p.Usernames[other]
	if username == "" {
		username = other
	}
	return Partner{
		ID:       p.ID,
		Email:    other,
		Username: username,
		Status:   "accepted",
	}
}

// Partner is the per-viewer projection of a Partnership: who the viewer is
// paired with, keyed by the partnership id.
type Partner struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Status   string    `json:"status"`
}
