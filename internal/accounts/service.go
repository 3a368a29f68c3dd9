package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/google/uuid"
)

// Keep these small interfaces so tests can fake them easily.

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type SessionRecorder interface {
	RecordSession(ctx context.Context, userID, token string) error
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// Service composes the credential store, token service and session
// authority into the account operations.
type Service struct {
	store    repo.Store
	tokens   TokenIssuer
	sessions SessionRecorder
	hasher   PasswordHasher
	log      *slog.Logger
}

func NewService(store repo.Store, tokens TokenIssuer, sessions SessionRecorder, hasher PasswordHasher, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		sessions: sessions,
		hasher:   hasher,
		log:      log,
	}
}

// Register creates a new standard-level account. The email uniqueness
// check is a lookup immediately before the write; two concurrent
// registrations with the same email can both pass it. That window is a
// known property of the store model, not something this layer hides.
func (s *Service) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	email := user.NormalizeEmail(req.Email)

	_, err := s.store.GetByEmail(ctx, email)

	if err == nil {
		return user.User{}, ErrEmailTaken
	}

	if !errors.Is(err, repo.ErrUserNotFound) {
		return user.User{}, s.internal("register: email lookup", err)
	}

	hash, err := s.hasher.Hash(req.Password)

	if err != nil {
		return user.User{}, s.internal("register: hash password", err)
	}

	now := user.NowMillis()

	u := user.User{
		ID:        uuid.NewString(),
		FirstName: user.TrimName(req.FirstName),
		LastName:  user.TrimName(req.LastName),
		Email:     email,
		Password:  hash,
		Level:     user.LevelStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, u); err != nil {
		return user.User{}, s.internal("register: create user", err)
	}

	return stripped(u), nil
}

// Login verifies credentials, issues a fresh token and records it as the
// session-of-record, superseding any prior session. Absent account and
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.GetByEmail(ctx, user.NormalizeEmail(email))

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", s.internal("login: email lookup", err)
	}

	if !s.hasher.Verify(password, u.Password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)

	if err != nil {
		return "", s.internal("login: issue token", err)
	}

	if err := s.sessions.RecordSession(ctx, u.ID, token); err != nil {
		return "", s.internal("login: record session", err)
	}

	return token, nil
}

func (s *Service) Get(ctx context.Context, userID string) (user.User, error) {
	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}

		return user.User{}, s.internal("get: load user", err)
	}

	return stripped(u), nil
}

// Update applies the supplied fields only. A supplied email that resolves
// to a different existing account is a conflict. The password, when
// supplied, is re-hashed.
func (s *Service) Update(ctx context.Context, userID string, req user.UpdateRequest) (user.User, error) {
	if req.Empty() {
		return user.User{}, ErrNoFields
	}

	if req.Email != "" {
		other, err := s.store.GetByEmail(ctx, user.NormalizeEmail(req.Email))

		if err == nil && other.ID != userID {
			return user.User{}, ErrEmailTaken
		}

		if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
			return user.User{}, s.internal("update: email lookup", err)
		}
	}

	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}

		return user.User{}, s.internal("update: load user", err)
	}

	if req.FirstName != "" {
		u.FirstName = user.TrimName(req.FirstName)
	}

	if req.LastName != "" {
		u.LastName = user.TrimName(req.LastName)
	}

	if req.Email != "" {
		u.Email = user.NormalizeEmail(req.Email)
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)

		if err != nil {
			return user.User{}, s.internal("update: hash password", err)
		}

		u.Password = hash
	}

	u.UpdatedAt = user.NowMillis()

	if err := s.store.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}

		return user.User{}, s.internal("update: write user", err)
	}

	return stripped(u), nil
}

// Refresh re-issues a token for an already-authenticated principal. The
// prior token stops authorizing the moment the new one is recorded.
func (s *Service) Refresh(ctx context.Context, userID string) (string, error) {
	u, err := s.store.GetByID(ctx, userID)

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrNotFound
		}

		return "", s.internal("refresh: load user", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Email)

	if err != nil {
		return "", s.internal("refresh: issue token", err)
	}

	if err := s.sessions.RecordSession(ctx, u.ID, token); err != nil {
		return "", s.internal("refresh: record session", err)
	}

	return token, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if _, err := s.store.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return ErrNotFound
		}

		return s.internal("delete: load user", err)
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return ErrNotFound
		}

		return s.internal("delete: remove user", err)
	}

	return nil
}

func (s *Service) internal(op string, err error) error {
	if s.log != nil {
		s.log.Error("account operation failed", "op", op, "err", err)
	}

	return ErrInternal
}

func stripped(u user.User) user.User {
	u.Password = ""
	return u
}
