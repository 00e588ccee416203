package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes",
		Summary:     "List recipes",
		Description: "Returns recipe summaries for the current user, optionally filtered by tag and ingredient IDs",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/v1/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a new recipe with optional tag and ingredient references",
		Tags:          []string{"Recipes"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Get recipe",
		Description: "Returns a recipe with tags and ingredients expanded",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Update recipe",
		Description: "Partially updates a recipe; tag and ingredient lists replace the existing sets",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/recipes/{id}",
		Summary:     "Delete recipe",
		Description: "Deletes a recipe and its uploaded image",
		Tags:        []string{"Recipes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadRecipeImage",
		Method:      http.MethodPost,
		Path:        "/api/v1/recipes/{id}/image",
		Summary:     "Upload recipe image",
		Description: "Uploads an image for a recipe; the raw request body is the image data",
		Tags:         []string{"Recipes"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: MaxImageUploadSize,
	}, s.handleUploadRecipeImage)

	// Direct chi route for image byte serving.
	s.router.Get("/recipes/{id}/image", s.handleServeRecipeImage)
}

// === DTOs ===

// RecipeView selects how much detail a serialized recipe carries.
type RecipeView int

const (
	// ViewSummary emits bare tag and ingredient ID lists.
	ViewSummary RecipeView = iota
	// ViewDetail expands tags and ingredients to id/name objects.
	ViewDetail
)

// RecipeRefResponse is an expanded tag or ingredient reference.
type RecipeRefResponse struct {
	ID   int64  `json:"id" doc:"Referenced entity ID"`
	Name string `json:"name" doc:"Referenced entity name"`
}

// RecipeResponse contains recipe data in API responses. Tags and
// Ingredients hold bare IDs in the summary view and RecipeRefResponse
// objects in the detail view.
type RecipeResponse struct {
	ID          int64     `json:"id" doc:"Recipe ID"`
	Title       string    `json:"title" doc:"Recipe title"`
	TimeMinutes int       `json:"time_minutes" doc:"Preparation time in minutes"`
	Price       float64   `json:"price" doc:"Approximate price"`
	Link        string    `json:"link,omitempty" doc:"External link"`
	Image       string    `json:"image,omitempty" doc:"Image serving path"`
	Tags        any       `json:"tags" doc:"Tag references"`
	Ingredients any       `json:"ingredients" doc:"Ingredient references"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
	Tags          string `query:"tags" doc:"Comma-separated tag IDs; matches recipes carrying any of them"`
	Ingredients   string `query:"ingredients" doc:"Comma-separated ingredient IDs; matches recipes carrying any of them"`
}

// ListRecipesResponse contains a list of recipe summaries.
type ListRecipesResponse struct {
	Recipes []RecipeResponse `json:"recipes" doc:"List of recipes"`
}

// ListRecipesOutput wraps the list recipes response for Huma.
type ListRecipesOutput struct {
	Body ListRecipesResponse
}

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string  `json:"title" validate:"required,max=255" doc:"Recipe title"`
	TimeMinutes int     `json:"time_minutes,omitempty" validate:"min=0" doc:"Preparation time in minutes"`
	Price       float64 `json:"price,omitempty" validate:"min=0" doc:"Approximate price"`
	Link        string  `json:"link,omitempty" validate:"omitempty,max=255" doc:"External link"`
	Tags        []int64 `json:"tags,omitempty" doc:"Tag IDs"`
	Ingredients []int64 `json:"ingredients,omitempty" doc:"Ingredient IDs"`
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateRecipeRequest
}

// RecipeOutput wraps the recipe response for Huma.
type RecipeOutput struct {
	Body RecipeResponse
}

// GetRecipeInput contains parameters for getting a recipe.
type GetRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
}

// UpdateRecipeRequest is the request body for updating a recipe.
// Omitted fields are left untouched; tag and ingredient lists fully
// replace the existing sets.
type UpdateRecipeRequest struct {
	Title       *string  `json:"title,omitempty" doc:"Recipe title"`
	TimeMinutes *int     `json:"time_minutes,omitempty" doc:"Preparation time in minutes"`
	Price       *float64 `json:"price,omitempty" doc:"Approximate price"`
	Link        *string  `json:"link,omitempty" doc:"External link"`
	Tags        *[]int64 `json:"tags,omitempty" doc:"Replacement tag IDs"`
	Ingredients *[]int64 `json:"ingredients,omitempty" doc:"Replacement ingredient IDs"`
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
	Body          UpdateRecipeRequest
}

// DeleteRecipeInput contains parameters for deleting a recipe.
type DeleteRecipeInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Recipe ID"`
}

// UploadRecipeImageInput contains the raw image upload request.
type UploadRecipeImageInput struct {
	Authorization string `header:"Authorization"`
	ContentType   string `header:"Content-Type" doc:"Image content type"`
	ID            int64  `path:"id" doc:"Recipe ID"`
	RawBody       []byte
}

// RecipeImageResponse contains the stored image path and blurhash.
type RecipeImageResponse struct {
	Image    string `json:"image" doc:"Image serving path"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder string"`
}

// RecipeImageOutput wraps the image response for Huma.
type RecipeImageOutput struct {
	Body RecipeImageResponse
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, input *ListRecipesInput) (*ListRecipesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.List(ctx, userID, input.Tags, input.Ingredients)
	if err != nil {
		return nil, err
	}

	resp := make([]RecipeResponse, len(recipes))
	for i, r := range recipes {
		resp[i], err = s.serializeRecipe(ctx, userID, r, ViewSummary)
		if err != nil {
			return nil, err
		}
	}

	return &ListRecipesOutput{Body: ListRecipesResponse{Recipes: resp}}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Recipe.Create(ctx, userID, service.CreateRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.serializeRecipe(ctx, userID, r, ViewSummary)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: body}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *GetRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Recipe.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	body, err := s.serializeRecipe(ctx, userID, r, ViewDetail)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: body}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*RecipeOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	r, err := s.services.Recipe.Update(ctx, userID, input.ID, service.UpdateRecipeRequest{
		Title:         input.Body.Title,
		TimeMinutes:   input.Body.TimeMinutes,
		Price:         input.Body.Price,
		Link:          input.Body.Link,
		TagIDs:        input.Body.Tags,
		IngredientIDs: input.Body.Ingredients,
	})
	if err != nil {
		return nil, err
	}

	body, err := s.serializeRecipe(ctx, userID, r, ViewSummary)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: body}, nil
}

func (s *Server) handleDeleteRecipe(ctx context.Context, input *DeleteRecipeInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Recipe deleted"}}, nil
}

func (s *Server) handleUploadRecipeImage(ctx context.Context, input *UploadRecipeImageInput) (*RecipeImageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	r, blurHash, err := s.services.Recipe.UploadImage(ctx, userID, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &RecipeImageOutput{
		Body: RecipeImageResponse{
			Image:    r.ImagePath,
			BlurHash: blurHash,
		},
	}, nil
}

// handleServeRecipeImage streams image bytes over chi directly, outside the
// huma envelope. Authentication uses the same Bearer header as the API.
func (s *Server) handleServeRecipeImage(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticateRequest(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	data, err := s.services.Recipe.GetImage(r.Context(), userID, id)
	if err != nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// === Serialization ===

// serializeRecipe converts a domain recipe to its API shape. The detail
// view resolves tag and ingredient names with extra store reads, so list
// responses stick to the summary view.
func (s *Server) serializeRecipe(ctx context.Context, userID string, r *domain.Recipe, view RecipeView) (RecipeResponse, error) {
	resp := RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Image:       r.ImagePath,
		Tags:        r.TagIDs,
		Ingredients: r.IngredientIDs,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if view == ViewSummary {
		return resp, nil
	}

	tags, err := s.store.GetTagsByIDs(ctx, userID, r.TagIDs)
	if err != nil {
		return RecipeResponse{}, err
	}
	tagRefs := make([]RecipeRefResponse, len(tags))
	for i, t := range tags {
		tagRefs[i] = RecipeRefResponse{ID: t.ID, Name: t.Name}
	}

	ingredients, err := s.store.GetIngredientsByIDs(ctx, userID, r.IngredientIDs)
	if err != nil {
		return RecipeResponse{}, err
	}
	ingredientRefs := make([]RecipeRefResponse, len(ingredients))
	for i, ing := range ingredients {
		ingredientRefs[i] = RecipeRefResponse{ID: ing.ID, Name: ing.Name}
	}

	resp.Tags = tagRefs
	resp.Ingredients = ingredientRefs
	return resp, nil
}
