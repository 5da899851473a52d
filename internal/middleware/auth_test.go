package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetrellis/userbase/internal/auth"
	"github.com/codetrellis/userbase/internal/models"
	"github.com/codetrellis/userbase/internal/storage"
)

// touchStore records TouchActivity calls and stubs the rest of the interface.
type touchStore struct {
	calls    int
	lastMail string
	found    bool
	err      error
}

func (s *touchStore) TouchActivity(ctx context.Context, email string, at time.Time) (bool, error) {
	s.calls++
	s.lastMail = email
	return s.found, s.err
}

func (s *touchStore) Create(context.Context, models.User) error { return nil }
func (s *touchStore) FindByEmail(context.Context, string) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}
func (s *touchStore) List(context.Context, int, int) ([]models.User, error) { return nil, nil }
func (s *touchStore) UpdateFields(context.Context, string, storage.UserUpdate) (int64, error) {
	return 0, nil
}
func (s *touchStore) DeleteByEmail(context.Context, string) (bool, error) { return false, nil }
func (s *touchStore) DeleteAll(context.Context) error                     { return nil }

func newGate(t *testing.T, store storage.UserStore) (*auth.TokenManager, http.Handler, *bool) {
	t.Helper()
	tokens := auth.NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	admitted := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admitted = true
		email, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Identity", email)
		w.WriteHeader(http.StatusOK)
	})
	return tokens, Authenticate(tokens, store, next), &admitted
}

func doRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user/all", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	store := &touchStore{}
	_, gate, admitted := newGate(t, store)

	rec := doRequest(gate, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"message": "Access denied. Token is required."}, decodeBody(t, rec))
	assert.Zero(t, store.calls, "store must not be touched before a credential is present")
	assert.False(t, *admitted)
}

func TestAuthenticate_HeaderWithoutToken(t *testing.T) {
	store := &touchStore{}
	_, gate, admitted := newGate(t, store)

	for _, header := range []string{"Bearer", "Bearer "} {
		rec := doRequest(gate, header)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, map[string]any{"success": false, "message": "No token provided"}, decodeBody(t, rec))
	}
	assert.Zero(t, store.calls)
	assert.False(t, *admitted)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	store := &touchStore{}
	tokens, gate, admitted := newGate(t, store)

	refresh, err := tokens.Issue("a@b.com", auth.RefreshToken)
	require.NoError(t, err)

	// Garbage and a refresh-signed token get the same uniform rejection.
	for _, token := range []string{"garbage", refresh} {
		rec := doRequest(gate, "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, map[string]any{"message": "Forbidden - Invalid or expired token.", "expired": true}, decodeBody(t, rec))
	}
	assert.Zero(t, store.calls)
	assert.False(t, *admitted)
}

func TestAuthenticate_UserVanished(t *testing.T) {
	store := &touchStore{found: false}
	tokens, gate, admitted := newGate(t, store)

	tok, err := tokens.Issue("gone@b.com", auth.AccessToken)
	require.NoError(t, err)

	rec := doRequest(gate, "Bearer "+tok)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"message": "User not found"}, decodeBody(t, rec))
	assert.Equal(t, 1, store.calls)
	assert.False(t, *admitted)
}

func TestAuthenticate_StoreError(t *testing.T) {
	store := &touchStore{err: errors.New("connection refused")}
	tokens, gate, admitted := newGate(t, store)

	tok, err := tokens.Issue("a@b.com", auth.AccessToken)
	require.NoError(t, err)

	rec := doRequest(gate, "Bearer "+tok)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Internal Server Error"}, decodeBody(t, rec))
	assert.False(t, *admitted)
}

func TestAuthenticate_Admits(t *testing.T) {
	store := &touchStore{found: true}
	tokens, gate, admitted := newGate(t, store)

	// The claim is carried as signed; the gate does not normalize case.
	tok, err := tokens.Issue("J@X.com", auth.AccessToken)
	require.NoError(t, err)

	rec := doRequest(gate, "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *admitted)
	assert.Equal(t, "J@X.com", rec.Header().Get("X-Identity"))
	assert.Equal(t, 1, store.calls, "every admitted request costs exactly one activity write")
	assert.Equal(t, "J@X.com", store.lastMail)
}
