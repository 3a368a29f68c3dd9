package memory

import (
	"context"
	"sync"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
)

// UsersRepo is an in-memory credential store used by tests and the
// memory driver. It keeps a primary id map plus a secondary email index,
// maintained alongside the record the same way the redis backend does —
// including the absence of atomicity between the two.
type UsersRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string // normalized email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, repo.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[user.NormalizeEmail(email)]

	if !ok {
		r.mu.RUnlock()
		return user.User{}, repo.ErrUserNotFound
	}

	u, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, repo.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	r.mu.Lock()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.mu.Unlock()

	return nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[u.ID]

	if !ok {
		return repo.ErrUserNotFound
	}

	if old.Email != u.Email {
		delete(r.byEmail, old.Email)
		r.byEmail[u.Email] = u.ID
	}

	r.byID[u.ID] = u

	return nil
}

func (r *UsersRepo) SetLastToken(ctx context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]

	if !ok {
		return repo.ErrUserNotFound
	}

	u.LastToken = token
	r.byID[id] = u

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]

	if !ok {
		return repo.ErrUserNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, u.Email)

	return nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return nil
}
