package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
)

func TestTagService_CreateListOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := registerTestUser(t, env, "cook@example.com")

	for _, name := range []string{"breakfast", "vegan", "dessert"} {
		_, err := env.tags.Create(ctx, user.ID, name)
		require.NoError(t, err)
	}

	tags, err := env.tags.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	// Listing is name-descending.
	assert.Equal(t, "vegan", tags[0].Name)
	assert.Equal(t, "dessert", tags[1].Name)
	assert.Equal(t, "breakfast", tags[2].Name)
}

func TestTagService_BlankNameRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := registerTestUser(t, env, "cook@example.com")

	_, err := env.tags.Create(ctx, user.ID, "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	tag, err := env.tags.Create(ctx, user.ID, "vegan")
	require.NoError(t, err)

	_, err = env.tags.Update(ctx, user.ID, tag.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagService_OwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := registerTestUser(t, env, "owner@example.com")
	other := registerTestUser(t, env, "other@example.com")

	tag, err := env.tags.Create(ctx, owner.ID, "vegan")
	require.NoError(t, err)

	_, err = env.tags.Get(ctx, other.ID, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.tags.Update(ctx, other.ID, tag.ID, "stolen")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = env.tags.Delete(ctx, other.ID, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The owner still sees it untouched.
	got, err := env.tags.Get(ctx, owner.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "vegan", got.Name)
}

func TestTagService_UpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := registerTestUser(t, env, "cook@example.com")

	tag, err := env.tags.Create(ctx, user.ID, "vegan")
	require.NoError(t, err)

	updated, err := env.tags.Update(ctx, user.ID, tag.ID, "vegetarian")
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", updated.Name)

	require.NoError(t, env.tags.Delete(ctx, user.ID, tag.ID))

	_, err = env.tags.Get(ctx, user.ID, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestIngredientService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := registerTestUser(t, env, "cook@example.com")

	_, err := env.ingredients.Create(ctx, user.ID, " ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	for _, name := range []string{"salt", "vinegar", "butter"} {
		_, err := env.ingredients.Create(ctx, user.ID, name)
		require.NoError(t, err)
	}

	list, err := env.ingredients.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "vinegar", list[0].Name)
	assert.Equal(t, "salt", list[1].Name)
	assert.Equal(t, "butter", list[2].Name)

	updated, err := env.ingredients.Update(ctx, user.ID, list[1].ID, "sea salt")
	require.NoError(t, err)
	assert.Equal(t, "sea salt", updated.Name)

	require.NoError(t, env.ingredients.Delete(ctx, user.ID, list[2].ID))

	_, err = env.ingredients.Get(ctx, user.ID, list[2].ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestIngredientService_OwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := registerTestUser(t, env, "owner@example.com")
	other := registerTestUser(t, env, "other@example.com")

	ing, err := env.ingredients.Create(ctx, owner.ID, "salt")
	require.NoError(t, err)

	_, err = env.ingredients.Get(ctx, other.ID, ing.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	list, err := env.ingredients.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
