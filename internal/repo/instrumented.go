package repo

import (
	"context"
	"errors"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/observability"
)

// InstrumentedStore wraps a Store with per-operation metrics.
type InstrumentedStore struct {
	next Store
	prom *observability.Prom
}

func Instrument(next Store, prom *observability.Prom) *InstrumentedStore {
	return &InstrumentedStore{next: next, prom: prom}
}

func (s *InstrumentedStore) observe(op string, fn func() error) error {
	var opErr error

	_ = s.prom.ObserveStore(op, func() error {
		opErr = fn()

		// a missing user is a domain outcome, not a store failure
		if errors.Is(opErr, ErrUserNotFound) {
			return nil
		}

		return opErr
	})

	return opErr
}

func (s *InstrumentedStore) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := s.observe("get_by_id", func() error {
		var err error
		u, err = s.next.GetByID(ctx, id)
		return err
	})

	return u, err
}

func (s *InstrumentedStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := s.observe("get_by_email", func() error {
		var err error
		u, err = s.next.GetByEmail(ctx, email)
		return err
	})

	return u, err
}

func (s *InstrumentedStore) Create(ctx context.Context, u user.User) error {
	return s.observe("create", func() error {
		return s.next.Create(ctx, u)
	})
}

func (s *InstrumentedStore) Update(ctx context.Context, u user.User) error {
	return s.observe("update", func() error {
		return s.next.Update(ctx, u)
	})
}

func (s *InstrumentedStore) SetLastToken(ctx context.Context, id, token string) error {
	return s.observe("set_last_token", func() error {
		return s.next.SetLastToken(ctx, id, token)
	})
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	return s.observe("delete", func() error {
		return s.next.Delete(ctx, id)
	})
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}
