package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/store"
)

// makeTestIngredient creates and persists an ingredient for the given owner.
func makeTestIngredient(t *testing.T, s *Store, ownerID, name string) *domain.Ingredient {
	t.Helper()
	now := time.Now()
	ing := &domain.Ingredient{
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateIngredient(context.Background(), ing); err != nil {
		t.Fatalf("create ingredient %q: %v", name, err)
	}
	return ing
}

func TestCreateAndGetIngredient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	ing := makeTestIngredient(t, s, "user-1", "salt")

	if ing.ID == 0 {
		t.Fatal("CreateIngredient should assign a nonzero ID")
	}

	got, err := s.GetIngredient(ctx, "user-1", ing.ID)
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}
	if got.Name != "salt" {
		t.Errorf("Name: got %q, want %q", got.Name, "salt")
	}
	if got.OwnerID != "user-1" {
		t.Errorf("OwnerID: got %q, want %q", got.OwnerID, "user-1")
	}
}

func TestListIngredients_NameDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	makeTestUser(t, s, "user-2", "other@example.com")

	makeTestIngredient(t, s, "user-1", "salt")
	makeTestIngredient(t, s, "user-1", "butter")
	makeTestIngredient(t, s, "user-1", "vinegar")
	makeTestIngredient(t, s, "user-2", "flour") // other user's entry must not leak

	ingredients, err := s.ListIngredients(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}

	want := []string{"vinegar", "salt", "butter"}
	if len(ingredients) != len(want) {
		t.Fatalf("got %d ingredients, want %d", len(ingredients), len(want))
	}
	for i, name := range want {
		if ingredients[i].Name != name {
			t.Errorf("ingredients[%d]: got %q, want %q", i, ingredients[i].Name, name)
		}
	}
}

func TestGetIngredient_OwnerScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	makeTestUser(t, s, "user-2", "other@example.com")
	ing := makeTestIngredient(t, s, "user-1", "salt")

	_, err := s.GetIngredient(ctx, "user-2", ing.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound for foreign owner, got %v", err)
	}
}

func TestGetIngredientsByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	makeTestUser(t, s, "user-2", "other@example.com")

	i1 := makeTestIngredient(t, s, "user-1", "salt")
	i2 := makeTestIngredient(t, s, "user-1", "butter")
	foreign := makeTestIngredient(t, s, "user-2", "flour")

	got, err := s.GetIngredientsByIDs(ctx, "user-1", []int64{i1.ID, i2.ID, foreign.ID, 9999})
	if err != nil {
		t.Fatalf("GetIngredientsByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(got))
	}
}

func TestUpdateIngredient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	ing := makeTestIngredient(t, s, "user-1", "salt")

	ing.Name = "sea salt"
	ing.Touch()
	if err := s.UpdateIngredient(ctx, ing); err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}

	got, err := s.GetIngredient(ctx, "user-1", ing.ID)
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}
	if got.Name != "sea salt" {
		t.Errorf("Name: got %q, want %q", got.Name, "sea salt")
	}
}

func TestDeleteIngredient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestUser(t, s, "user-1", "cook@example.com")
	ing := makeTestIngredient(t, s, "user-1", "salt")

	if err := s.DeleteIngredient(ctx, "user-1", ing.ID); err != nil {
		t.Fatalf("DeleteIngredient: %v", err)
	}
	if _, err := s.GetIngredient(ctx, "user-1", ing.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound after delete, got %v", err)
	}

	// Deleting for the wrong owner reports not found.
	other := makeTestIngredient(t, s, "user-1", "butter")
	makeTestUser(t, s, "user-2", "other@example.com")
	if err := s.DeleteIngredient(ctx, "user-2", other.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound for foreign owner, got %v", err)
	}
}
