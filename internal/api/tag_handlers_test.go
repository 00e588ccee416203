package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTag creates a tag through the API and returns its response data.
func (ts *testServer) createTag(t *testing.T, token, name string) TagResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/tags",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

// createIngredient creates an ingredient through the API.
func (ts *testServer) createIngredient(t *testing.T, token, name string) IngredientResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/ingredients",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[IngredientResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestListTags_EmptyInitially(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")

	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Tags)
}

func TestTagLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")
	token := auth.AccessToken

	tag := ts.createTag(t, token, "vegan")
	assert.Positive(t, tag.ID)
	assert.Equal(t, "vegan", tag.Name)

	// Get.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/tags/%d", tag.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Update.
	resp = ts.api.Patch(fmt.Sprintf("/api/v1/tags/%d", tag.ID),
		map[string]any{"name": "vegetarian"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "vegetarian", envelope.Data.Name)

	// Delete.
	resp = ts.api.Delete(fmt.Sprintf("/api/v1/tags/%d", tag.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/tags/%d", tag.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTags_ListOrderedNameDescending(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")
	for _, name := range []string{"breakfast", "vegan", "dessert"} {
		ts.createTag(t, auth.AccessToken, name)
	}

	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Tags, 3)
	assert.Equal(t, "vegan", envelope.Data.Tags[0].Name)
	assert.Equal(t, "dessert", envelope.Data.Tags[1].Name)
	assert.Equal(t, "breakfast", envelope.Data.Tags[2].Name)
}

func TestTags_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)

	owner := ts.registerUser(t, "owner@example.com")
	other := ts.registerUser(t, "other@example.com")

	tag := ts.createTag(t, owner.AccessToken, "vegan")

	// The other user cannot see, update, or delete it.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/tags/%d", tag.ID), "Authorization: Bearer "+other.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Patch(fmt.Sprintf("/api/v1/tags/%d", tag.ID),
		map[string]any{"name": "stolen"},
		"Authorization: Bearer "+other.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/tags/%d", tag.ID), "Authorization: Bearer "+other.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Their own list is empty.
	resp = ts.api.Get("/api/v1/tags", "Authorization: Bearer "+other.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Tags)
}

func TestCreateTag_BlankNameRejected(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")

	resp := ts.api.Post("/api/v1/tags",
		map[string]any{"name": "   "},
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestIngredientLifecycle(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")
	token := auth.AccessToken

	ing := ts.createIngredient(t, token, "salt")
	assert.Positive(t, ing.ID)

	resp := ts.api.Patch(fmt.Sprintf("/api/v1/ingredients/%d", ing.ID),
		map[string]any{"name": "sea salt"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[IngredientResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "sea salt", envelope.Data.Name)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/ingredients/%d", ing.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestIngredients_ListOrderedNameDescending(t *testing.T) {
	ts := setupTestServer(t)

	auth := ts.registerUser(t, "cook@example.com")
	for _, name := range []string{"salt", "vinegar", "butter"} {
		ts.createIngredient(t, auth.AccessToken, name)
	}

	resp := ts.api.Get("/api/v1/ingredients", "Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListIngredientsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Ingredients, 3)
	assert.Equal(t, "vinegar", envelope.Data.Ingredients[0].Name)
	assert.Equal(t, "salt", envelope.Data.Ingredients[1].Name)
	assert.Equal(t, "butter", envelope.Data.Ingredients[2].Name)
}
