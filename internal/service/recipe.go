package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pantryapp/pantry-server/internal/domain"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/media/images"
	"github.com/pantryapp/pantry-server/internal/store"
)

// RecipeService manages a user's recipes, including image uploads.
type RecipeService struct {
	store        store.Store
	imageStorage *images.Storage
	logger       *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(store store.Store, imageStorage *images.Storage, logger *slog.Logger) *RecipeService {
	return &RecipeService{
		store:        store,
		imageStorage: imageStorage,
		logger:       logger,
	}
}

// CreateRecipeRequest contains recipe creation data.
type CreateRecipeRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	TimeMinutes   int     `json:"time_minutes" validate:"min=0"`
	Price         float64 `json:"price" validate:"min=0"`
	Link          string  `json:"link,omitempty" validate:"max=255"`
	TagIDs        []int64 `json:"tags"`
	IngredientIDs []int64 `json:"ingredients"`
}

// UpdateRecipeRequest contains partial recipe updates.
// Nil fields are left untouched; non-nil ID slices fully replace the set.
type UpdateRecipeRequest struct {
	Title         *string  `json:"title,omitempty"`
	TimeMinutes   *int     `json:"time_minutes,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Link          *string  `json:"link,omitempty"`
	TagIDs        *[]int64 `json:"tags,omitempty"`
	IngredientIDs *[]int64 `json:"ingredients,omitempty"`
}

// ParseIDList parses a comma-separated list of integer IDs, as used by the
// tags and ingredients list filters. Every token must be a valid integer;
// a malformed token rejects the whole list. An empty string yields nil.
func ParseIDList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, domainerrors.Validationf("invalid id %q in filter", strings.TrimSpace(part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns the user's recipes, optionally narrowed by tag and ingredient
// ID filters (comma-separated integers). A recipe matches a filter when its
// set overlaps the requested IDs; both filters together narrow the result.
func (s *RecipeService) List(ctx context.Context, userID, tagsParam, ingredientsParam string) ([]*domain.Recipe, error) {
	tagIDs, err := ParseIDList(tagsParam)
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := ParseIDList(ingredientsParam)
	if err != nil {
		return nil, err
	}

	recipes, err := s.store.ListRecipes(ctx, userID, store.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Create adds a recipe for the user. Every referenced tag and ingredient
// must exist and belong to the same user.
func (s *RecipeService) Create(ctx context.Context, userID string, req CreateRecipeRequest) (*domain.Recipe, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if err := s.validateRefs(ctx, userID, req.TagIDs, req.IngredientIDs); err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		OwnerID:       userID,
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        dedupeIDs(req.TagIDs),
		IngredientIDs: dedupeIDs(req.IngredientIDs),
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// Get returns one of the user's recipes by ID.
func (s *RecipeService) Get(ctx context.Context, userID string, id int64) (*domain.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Update applies a partial update to one of the user's recipes.
// Non-nil tag or ingredient sets fully replace the previous set and are
// validated for same-owner references.
func (s *RecipeService) Update(ctx context.Context, userID string, id int64, req UpdateRecipeRequest) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, domainerrors.Validation("title must not be blank")
		}
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		if *req.TimeMinutes < 0 {
			return nil, domainerrors.Validation("time_minutes must not be negative")
		}
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domainerrors.Validation("price must not be negative")
		}
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	var newTags, newIngredients []int64
	if req.TagIDs != nil {
		newTags = *req.TagIDs
		recipe.TagIDs = dedupeIDs(newTags)
	}
	if req.IngredientIDs != nil {
		newIngredients = *req.IngredientIDs
		recipe.IngredientIDs = dedupeIDs(newIngredients)
	}
	if err := s.validateRefs(ctx, userID, newTags, newIngredients); err != nil {
		return nil, err
	}

	recipe.Touch()
	if err := s.store.UpdateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipe not found")
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes one of the user's recipes and its stored image, if any.
func (s *RecipeService) Delete(ctx context.Context, userID string, id int64) error {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("recipe not found")
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	if recipe.HasImage() {
		if err := s.imageStorage.Delete(imageKey(id)); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete recipe image",
				"recipe_id", id,
				"error", err,
			)
		}
	}

	return nil
}

// UploadImage validates, stores, and attaches an image to one of the user's
// recipes, returning the updated recipe and a BlurHash placeholder string.
// A failed decode leaves any previous image untouched.
func (s *RecipeService) UploadImage(ctx context.Context, userID string, id int64, data []byte) (*domain.Recipe, string, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	if len(data) == 0 {
		return nil, "", domainerrors.Validation("image data must not be empty")
	}

	// Reject non-image payloads before touching storage.
	img, format, err := images.Decode(data)
	if err != nil {
		return nil, "", domainerrors.Validation("image data is not a valid image").WithCause(err)
	}

	if err := s.imageStorage.Save(imageKey(id), data); err != nil {
		return nil, "", fmt.Errorf("save image: %w", err)
	}

	blurHash, err := images.ComputeBlurHash(img)
	if err != nil {
		// The placeholder is best-effort; the upload itself succeeded.
		if s.logger != nil {
			s.logger.Warn("Failed to compute blurhash",
				"recipe_id", id,
				"error", err,
			)
		}
		blurHash = ""
	}

	imagePath := fmt.Sprintf("/recipes/%d/image", id)
	if err := s.store.SetRecipeImagePath(ctx, userID, id, imagePath); err != nil {
		return nil, "", fmt.Errorf("set image path: %w", err)
	}
	recipe.ImagePath = imagePath

	if s.logger != nil {
		s.logger.Info("Recipe image uploaded",
			"recipe_id", id,
			"format", format,
			"bytes", len(data),
		)
	}

	return recipe, blurHash, nil
}

// GetImage returns the stored image bytes for one of the user's recipes.
func (s *RecipeService) GetImage(ctx context.Context, userID string, id int64) ([]byte, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !recipe.HasImage() {
		return nil, domainerrors.NotFound("recipe has no image")
	}

	data, err := s.imageStorage.Get(imageKey(id))
	if err != nil {
		return nil, domainerrors.NotFound("recipe image not found").WithCause(err)
	}
	return data, nil
}

// validateRefs ensures every referenced tag and ingredient exists and belongs
// to the user. References to other users' entries are indistinguishable from
// references to nonexistent ones.
func (s *RecipeService) validateRefs(ctx context.Context, userID string, tagIDs, ingredientIDs []int64) error {
	if len(tagIDs) > 0 {
		unique := dedupeIDs(tagIDs)
		tags, err := s.store.GetTagsByIDs(ctx, userID, unique)
		if err != nil {
			return fmt.Errorf("check tag refs: %w", err)
		}
		if len(tags) != len(unique) {
			return domainerrors.Validation("tags contains unknown ids")
		}
	}

	if len(ingredientIDs) > 0 {
		unique := dedupeIDs(ingredientIDs)
		ingredients, err := s.store.GetIngredientsByIDs(ctx, userID, unique)
		if err != nil {
			return fmt.Errorf("check ingredient refs: %w", err)
		}
		if len(ingredients) != len(unique) {
			return domainerrors.Validation("ingredients contains unknown ids")
		}
	}

	return nil
}

// dedupeIDs removes duplicate IDs while preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// imageKey is the storage key for a recipe's image file.
func imageKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
