package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetrellis/userbase/internal/auth"
	"github.com/codetrellis/userbase/internal/middleware"
	"github.com/codetrellis/userbase/internal/storage/postgres"
)

// TestUsersIntegration exercises the full signup → signin → protected-read →
// delete flow against a live database.
func TestUsersIntegration(t *testing.T) {
	if os.Getenv("RUN_USERS_INTEGRATION") != "true" {
		t.Skip("set RUN_USERS_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewUserStore(ctx, dbURL, 5)
	require.NoError(t, err)
	defer store.Close()

	tokens := auth.NewTokenManager("it-access-secret", "it-refresh-secret", time.Hour, 24*time.Hour)

	mux := http.NewServeMux()
	NewUserHandler(store, tokens).Register(mux, func(next http.Handler) http.Handler {
		return middleware.Authenticate(tokens, store, next)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	email := fmt.Sprintf("it_%d@example.com", time.Now().UnixNano())
	password := fmt.Sprintf("pw-%d", time.Now().UnixNano())

	token := postJSON(t, ts.URL+"/api/v1/user/signup", map[string]string{
		"firstname": "Ada",
		"lastname":  "Lovelace",
		"email":     email,
		"password":  password,
	}, http.StatusOK)["token"].(string)
	require.NotEmpty(t, token)

	signin := postJSON(t, ts.URL+"/api/v1/user/signin", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	assert.Equal(t, "Login successful", signin["message"])

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/user/"+email, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, email, record["email"])
	assert.NotNil(t, record["lastActivity"], "the gate must have stamped activity")

	del, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/user/"+email, nil)
	require.NoError(t, err)
	del.Header.Set("Authorization", "Bearer "+token)
	delResp, err := http.DefaultClient.Do(del)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)
}

func postJSON(t *testing.T, url string, payload map[string]string, wantStatus int) map[string]any {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func loadDotEnv() {
	paths := []string{".env", "../.env", "../../.env", "../../../.env", "../../../../.env"}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
