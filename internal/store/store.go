// Package store defines the persistence interface for the pantry server.
package store

import (
	"context"

	"github.com/pantryapp/pantry-server/internal/domain"
)

// RecipeFilter narrows recipe listings to recipes carrying at least one tag
// from TagIDs and at least one ingredient from IngredientIDs. Empty slices
// mean no constraint.
type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, ownerID string, id int64) (*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ownerID string, ids []int64) ([]*domain.Tag, error)
	ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, ownerID string, id int64) error

	// Ingredients
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	GetIngredient(ctx context.Context, ownerID string, id int64) (*domain.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ownerID string, ids []int64) ([]*domain.Ingredient, error)
	ListIngredients(ctx context.Context, ownerID string) ([]*domain.Ingredient, error)
	UpdateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	DeleteIngredient(ctx context.Context, ownerID string, id int64) error

	// Recipes
	CreateRecipe(ctx context.Context, recipe *domain.Recipe) error
	GetRecipe(ctx context.Context, ownerID string, id int64) (*domain.Recipe, error)
	ListRecipes(ctx context.Context, ownerID string, filter RecipeFilter) ([]*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, ownerID string, id int64) error
	SetRecipeImagePath(ctx context.Context, ownerID string, id int64, imagePath string) error
}
