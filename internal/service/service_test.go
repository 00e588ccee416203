package service

import (
	"context"
	"encoding/hex"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pantryapp/pantry-server/internal/auth"
	"github.com/pantryapp/pantry-server/internal/domain"
	"github.com/pantryapp/pantry-server/internal/media/images"
	"github.com/pantryapp/pantry-server/internal/store/sqlite"
)

// testEnv bundles the services under test with their shared dependencies.
type testEnv struct {
	store       *sqlite.Store
	tokens      *auth.TokenService
	auth        *AuthService
	sessions    *SessionService
	tags        *TagService
	ingredients *IngredientService
	recipes     *RecipeService
}

// newTestEnv creates services backed by temporary storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	imageStorage, err := images.NewStorage(tmpDir)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)

	return &testEnv{
		store:       s,
		tokens:      tokenService,
		auth:        authService,
		sessions:    sessionService,
		tags:        NewTagService(s, nil),
		ingredients: NewIngredientService(s, nil),
		recipes:     NewRecipeService(s, imageStorage, nil),
	}
}

// registerTestUser creates a user through the auth service and returns it.
func registerTestUser(t *testing.T, env *testEnv, email string) *domain.User {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "secret",
		Name:     "Test User",
	}, "pantry-tests", "")
	require.NoError(t, err)
	return resp.User
}
