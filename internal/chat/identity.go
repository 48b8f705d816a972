package chat

import "github.com/google/uuid"

// Identity is the authenticated user a component acts as. It is passed in
// explicitly rather than read from ambient session state, so several users
// can run side by side in one process (and in tests).
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
}

// Name returns the display name, falling back to "Anonymous" when none is
// set.
func (id Identity) Name() string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return "Anonymous"
}
