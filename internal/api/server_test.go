package api

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryapp/pantry-server/internal/auth"
	"github.com/pantryapp/pantry-server/internal/media/images"
	"github.com/pantryapp/pantry-server/internal/service"
	"github.com/pantryapp/pantry-server/internal/store/sqlite"
)

// testEnvelope mirrors the wire envelope for decoding in tests. Success and
// error fields are combined so one type covers both shapes.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
}

// setupTestServer creates a test server with all dependencies on temporary storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

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

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)

	services := &Services{
		Auth:       authService,
		Session:    sessionService,
		Tag:        service.NewTagService(st, logger),
		Ingredient: service.NewIngredientService(st, logger),
		Recipe:     service.NewRecipeService(st, imageStorage, logger),
	}

	server := NewServer(st, services, imageStorage, logger)
	t.Cleanup(server.Close)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
		tokens: tokenService,
	}
}

// registerUser creates a user through the API and returns the auth response data.
func (ts *testServer) registerUser(t *testing.T, email string) AuthResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":       email,
		"password":    "secret",
		"name":        "Test Cook",
		"client_name": "pantry-tests",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	return envelope.Data
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	paths := []string{
		"/api/v1/users/me",
		"/api/v1/tags",
		"/api/v1/ingredients",
		"/api/v1/recipes",
	}
	for _, path := range paths {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "path %s", path)
	}

	// Garbage token is rejected the same way.
	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Malformed header scheme too.
	resp = ts.api.Get("/api/v1/tags", "Authorization: Basic abc")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	ts := setupTestServer(t)

	// The auth limiter allows a burst of 10 from one client.
	sawTooMany := false
	for i := 0; i < 12; i++ {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{
			"email":    "ghost@example.com",
			"password": "wrong",
		})
		if resp.Code == http.StatusTooManyRequests {
			sawTooMany = true
		}
	}
	assert.True(t, sawTooMany, "expected a 429 after exhausting the burst")

	// Non-auth routes are not limited.
	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
}
