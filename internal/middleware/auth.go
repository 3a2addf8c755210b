package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"shiptech/internal/models"
	"shiptech/internal/session"
	"shiptech/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// AdminKey is the context key for the authenticated admin record.
	AdminKey contextKey = "admin"
)

// LoadAdmin resolves the session cookie and revalidates the cached admin
// identity against the admins table on every request. The session is only
// a cache: if the re-query fails or the code is no longer active, the
// session is destroyed and the request proceeds unauthenticated. A
// transient lookup failure is indistinguishable from revocation and is
// treated the same way.
func LoadAdmin(sessions *session.Store, admins *store.AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Get(r.Context(), r)
			if err != nil || sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := admins.FindActiveByCode(sess.AdminCode)
			if err != nil || admin == nil {
				if err != nil {
					slog.Warn("admin revalidation failed", "code", sess.AdminCode, "error", err)
				}
				sessions.Destroy(r.Context(), w, r)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects unauthenticated mutation attempts with a JSON 401.
// Must be applied after LoadAdmin in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if AdminFromCtx(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminFromCtx extracts the revalidated admin record from the request
// context. Returns nil if the request is unauthenticated.
func AdminFromCtx(ctx context.Context) *models.Admin {
	admin, _ := ctx.Value(AdminKey).(*models.Admin)
	return admin
}
