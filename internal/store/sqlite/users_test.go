package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/pantryapp/pantry-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "user-1", "Cook@Example.com")

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.ID != u.ID {
		t.Errorf("ID: got %q, want %q", got.ID, u.ID)
	}
	if got.Email != "Cook@Example.com" {
		t.Errorf("Email: got %q, want original casing preserved", got.Email)
	}
	if got.EmailLower != "cook@example.com" {
		t.Errorf("EmailLower: got %q, want %q", got.EmailLower, "cook@example.com")
	}
	if !got.IsActive {
		t.Error("IsActive: expected true")
	}
	if got.CreatedAt.Unix() != u.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, u.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "Cook@Example.com")

	// Lookup with different casing should hit the same row.
	got, err := s.GetUserByEmail(ctx, "COOK@EXAMPLE.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	u := makeTestUser(t, s, "user-1", "cook@example.com")

	dup := *u
	dup.ID = "user-2"
	dup.Email = "COOK@example.com" // same email, different casing
	err := s.CreateUser(context.Background(), &dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected store.ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "user-1", "cook@example.com")

	u.Name = "Head Chef"
	u.PasswordHash = "$argon2id$new"
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "Head Chef" {
		t.Errorf("Name: got %q, want %q", got.Name, "Head Chef")
	}
	if got.PasswordHash != "$argon2id$new" {
		t.Errorf("PasswordHash not updated")
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	u := makeTestUser(t, s, "user-1", "cook@example.com")
	u.ID = "ghost"
	err := s.UpdateUser(context.Background(), u)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestUpdateUser_EmailCollision(t *testing.T) {
	s := newTestStore(t)

	makeTestUser(t, s, "user-1", "first@example.com")
	u2 := makeTestUser(t, s, "user-2", "second@example.com")

	u2.Email = "First@Example.com"
	err := s.UpdateUser(context.Background(), u2)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected store.ErrAlreadyExists, got %v", err)
	}
}
