package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, repo Repository) (chi.Router, *Service) {
	t.Helper()
	svc := newTestService(t, repo)
	handler := NewHandler(slog.New(slog.DiscardHandler), svc)
	r := chi.NewRouter()
	r.Route("/auth", func(ar chi.Router) {
		handler.MountRoutes(ar, nil)
	})
	return r, svc
}

func postJSON(t *testing.T, router http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestHandleLoginSuccess(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "editor@example.com", "s3cret-pass", "editor")
	router, _ := newTestRouter(t, repo)

	rec := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "editor@example.com",
		"password": "s3cret-pass",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.EqualValues(t, 900, data["expires_in"])

	user := data["user"].(map[string]any)
	assert.Equal(t, "editor@example.com", user["email"])
	assert.Equal(t, "editor", user["role_slug"])
}

func TestHandleLoginBadCredentials(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "editor@example.com", "s3cret-pass", "editor")
	router, _ := newTestRouter(t, repo)

	rec := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "editor@example.com",
		"password": "wrong",
	}, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	errBody := envelope["error"].(map[string]any)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody["code"])
}

func TestHandleLoginValidation(t *testing.T) {
	repo := newMockRepository()
	router, _ := newTestRouter(t, repo)

	rec := postJSON(t, router, "/auth/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRefresh(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	router, svc := newTestRouter(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	rec := postJSON(t, router, "/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])

	// An access token in the refresh slot is rejected.
	rec = postJSON(t, router, "/auth/refresh", map[string]string{
		"refresh_token": pair.AccessToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogoutRequiresAuth(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	router, svc := newTestRouter(t, repo)

	rec := postJSON(t, router, "/auth/logout", map[string]string{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	rec = postJSON(t, router, "/auth/logout", map[string]string{}, pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleMe(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	router, svc := newTestRouter(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "writer@example.com", data["email"])
}
