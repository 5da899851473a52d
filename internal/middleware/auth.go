package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/codetrellis/userbase/internal/auth"
	"github.com/codetrellis/userbase/internal/http/respond"
	"github.com/codetrellis/userbase/internal/storage"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the authenticated email attached by Authenticate.
func IdentityFrom(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey).(string)
	return email, ok
}

// WithIdentity attaches an authenticated email to the context. Exported for
// handler tests that bypass the middleware.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey, email)
}

type successMessageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type forbiddenBody struct {
	Message string `json:"message"`
	Expired bool   `json:"expired"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Authenticate guards protected routes. It extracts the bearer credential,
// verifies it, and synchronously stamps the holder's last activity in the
// store before admitting the request. The downstream handler runs only on
// admission, with the authenticated email in the request context.
//
// Every admitted request costs one store write; this doubles as the
// last-seen tracker.
func Authenticate(tokens *auth.TokenManager, store storage.UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.JSON(w, http.StatusUnauthorized, messageBody{Message: "Access denied. Token is required."})
			return
		}

		// The two 401 bodies differ deliberately; existing clients key off
		// the shapes.
		parts := strings.Split(header, " ")
		if len(parts) < 2 || parts[1] == "" {
			respond.JSON(w, http.StatusUnauthorized, successMessageBody{Success: false, Message: "No token provided"})
			return
		}

		email, err := tokens.Verify(parts[1])
		if err != nil {
			// One body for every verification failure; bad signature and
			// real expiry are not distinguished.
			respond.JSON(w, http.StatusForbidden, forbiddenBody{Message: "Forbidden - Invalid or expired token.", Expired: true})
			return
		}

		found, err := store.TouchActivity(r.Context(), email, time.Now())
		if err != nil {
			log.Printf("authenticate: activity update failed: %v", err)
			respond.JSON(w, http.StatusInternalServerError, successMessageBody{Success: false, Message: "Internal Server Error"})
			return
		}
		if !found {
			// Valid token, but the user was deleted after issuance.
			respond.JSON(w, http.StatusNotFound, messageBody{Message: "User not found"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), email)))
	})
}
