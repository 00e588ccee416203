package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pantryapp/pantry-server/internal/domain"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/store"
)

// IngredientService manages a user's ingredients.
type IngredientService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIngredientService creates a new ingredient service.
func NewIngredientService(store store.Store, logger *slog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		logger: logger,
	}
}

// List returns the user's ingredients ordered by name descending.
func (s *IngredientService) List(ctx context.Context, userID string) ([]*domain.Ingredient, error) {
	ingredients, err := s.store.ListIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

// Create adds an ingredient for the user. Blank names are rejected;
// duplicate names for the same owner are allowed.
func (s *IngredientService) Create(ctx context.Context, userID, name string) (*domain.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("name must not be blank")
	}

	ing := &domain.Ingredient{
		OwnerID: userID,
		Name:    name,
	}
	ing.InitTimestamps()

	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ing, nil
}

// Get returns one of the user's ingredients by ID.
func (s *IngredientService) Get(ctx context.Context, userID string, id int64) (*domain.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// Update renames one of the user's ingredients.
func (s *IngredientService) Update(ctx context.Context, userID string, id int64, name string) (*domain.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.Validation("name must not be blank")
	}

	ing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	ing.Name = name
	ing.Touch()
	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("ingredient not found")
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return ing, nil
}

// Delete removes one of the user's ingredients. Recipes referencing it drop
// the association but are otherwise untouched.
func (s *IngredientService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.store.DeleteIngredient(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("ingredient not found")
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}
