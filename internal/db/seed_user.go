package db

import (
	"context"
	"errors"

	"github.com/nmorales89/accounthub/internal/config"
	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/nmorales89/accounthub/internal/security"
	"github.com/google/uuid"
)

// EnsureSeedUser creates the bootstrap account from SEED_EMAIL /
// SEED_PASSWORD if one does not exist yet. A no-op when either is unset.
func EnsureSeedUser(ctx context.Context, store repo.Store, hasher *security.Hasher, cfg config.Config) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	email := user.NormalizeEmail(cfg.SeedEmail)

	_, err := store.GetByEmail(ctx, email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, repo.ErrUserNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.SeedPassword)

	if err != nil {
		return err
	}

	now := user.NowMillis()

	return store.Create(ctx, user.User{
		ID:        uuid.NewString(),
		FirstName: user.TrimName(cfg.SeedFirstName),
		LastName:  user.TrimName(cfg.SeedLastName),
		Email:     email,
		Password:  hash,
		Level:     user.LevelStandard,
		CreatedAt: now,
		UpdatedAt: now,
	})
}
