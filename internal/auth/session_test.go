package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/nmorales89/accounthub/internal/repo/memory"
)

func seedUser(t *testing.T, store *memory.UsersRepo, id string) {
	t.Helper()

	err := store.Create(context.Background(), user.User{
		ID:    id,
		Email: id + "@example.com",
		Level: user.LevelStandard,
	})

	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestRecordSessionOverwrites(t *testing.T) {
	t.Parallel()

	store := memory.NewUsersRepo()
	seedUser(t, store, "u1")

	s := NewSessionAuthority(store)
	ctx := context.Background()

	if err := s.RecordSession(ctx, "u1", "tok-1"); err != nil {
		t.Fatalf("RecordSession error: %v", err)
	}

	if !s.IsCurrent(ctx, "u1", "tok-1") {
		t.Fatalf("tok-1 should be current after recording")
	}

	// recording a new token supersedes the old one
	if err := s.RecordSession(ctx, "u1", "tok-2"); err != nil {
		t.Fatalf("RecordSession error: %v", err)
	}

	if s.IsCurrent(ctx, "u1", "tok-1") {
		t.Fatalf("tok-1 should no longer be current")
	}

	if !s.IsCurrent(ctx, "u1", "tok-2") {
		t.Fatalf("tok-2 should be current")
	}
}

func TestRecordSessionMissingUser(t *testing.T) {
	t.Parallel()

	s := NewSessionAuthority(memory.NewUsersRepo())

	err := s.RecordSession(context.Background(), "nope", "tok")

	if !errors.Is(err, repo.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestIsCurrentEdgeCases(t *testing.T) {
	t.Parallel()

	store := memory.NewUsersRepo()
	seedUser(t, store, "u1")

	s := NewSessionAuthority(store)
	ctx := context.Background()

	// never logged in: no slot, nothing is current
	if s.IsCurrent(ctx, "u1", "") {
		t.Fatalf("empty token must never be current")
	}

	if s.IsCurrent(ctx, "u1", "tok") {
		t.Fatalf("no recorded session, nothing should be current")
	}

	// unknown user
	if s.IsCurrent(ctx, "ghost", "tok") {
		t.Fatalf("unknown user should read as not current")
	}
}
