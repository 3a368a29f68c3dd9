package repo

import (
	"context"
	"errors"

	"github.com/nmorales89/accounthub/internal/domain/user"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the credential store contract. Email lookups use the
// normalized address. Uniqueness of emails is enforced by callers with a
// lookup-then-write sequence, so two concurrent writers can still race —
// the store does not close that window.
type Store interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
	Update(ctx context.Context, u user.User) error
	SetLastToken(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
