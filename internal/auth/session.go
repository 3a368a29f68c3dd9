package auth

import (
	"context"

	"github.com/nmorales89/accounthub/internal/repo"
)

// SessionAuthority tracks the single currently-valid token per user.
// Every successful login or refresh overwrites the slot, which silently
// supersedes whatever token was there before.
type SessionAuthority struct {
	store repo.Store
}

func NewSessionAuthority(store repo.Store) *SessionAuthority {
	return &SessionAuthority{store: store}
}

// RecordSession persists token as the user's session-of-record.
func (s *SessionAuthority) RecordSession(ctx context.Context, userID, token string) error {
	return s.store.SetLastToken(ctx, userID, token)
}

// IsCurrent reports whether token is exactly the stored session-of-record.
// A missing user, an empty slot, or a store failure all read as "not
// current".
func (s *SessionAuthority) IsCurrent(ctx context.Context, userID, token string) bool {
	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		return false
	}

	return u.LastToken != "" && u.LastToken == token
}
