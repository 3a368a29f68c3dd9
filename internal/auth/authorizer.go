package auth

import (
	"context"
	"strings"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
)

// Authorizer gates every protected request. It runs a small state
// machine: decode the bearer credential, then check it against the
// session-of-record. Signature validity alone is not enough — a token
// stays cryptographically valid for its whole 24h lifetime, while a new
// login replaces the session long before that.
type authState int

const (
	stateDecoding authState = iota
	stateCheckingSession
	stateAllow
	stateDeny
)

// Keep these small interfaces so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type SessionChecker interface {
	IsCurrent(ctx context.Context, userID, token string) bool
}

// Decision is the authorizer's output. On allow it carries the principal
// id plus the user record (password stays out of any JSON rendering) for
// the routing layer to inject into the request context.
type Decision struct {
	Allowed     bool
	PrincipalID string
	User        user.User
}

var denied = Decision{Allowed: false, PrincipalID: "unknown"}

type Authorizer struct {
	tokens   TokenVerifier
	sessions SessionChecker
	store    repo.Store
}

func NewAuthorizer(tokens TokenVerifier, sessions SessionChecker, store repo.Store) *Authorizer {
	return &Authorizer{
		tokens:   tokens,
		sessions: sessions,
		store:    store,
	}
}

// Authorize evaluates the raw Authorization header value.
func (a *Authorizer) Authorize(ctx context.Context, header string) Decision {
	state := stateDecoding

	var (
		raw    string
		claims *Claims
	)

	for {
		switch state {
		case stateDecoding:
			raw = bearerToken(header)

			if raw == "" {
				state = stateDeny
				continue
			}

			c, err := a.tokens.Verify(raw)

			if err != nil {
				state = stateDeny
				continue
			}

			claims = c
			state = stateCheckingSession

		case stateCheckingSession:
			if !a.sessions.IsCurrent(ctx, claims.UserID, raw) {
				state = stateDeny
				continue
			}

			state = stateAllow

		case stateAllow:
			u, err := a.store.GetByID(ctx, claims.UserID)

			if err != nil {
				// raced with a delete between the session check and here
				return denied
			}

			u.Password = ""

			return Decision{
				Allowed:     true,
				PrincipalID: claims.UserID,
				User:        u,
			}

		case stateDeny:
			return denied
		}
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}
