package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"shiptech/internal/middleware"
	"shiptech/internal/session"
	"shiptech/internal/store"
)

// Auth groups the authentication HTTP handlers.
type Auth struct {
	sessions *session.Store
	admins   *store.AdminStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, admins *store.AdminStore) *Auth {
	return &Auth{sessions: sessions, admins: admins}
}

// Login authenticates by admin code. The code is looked up against active
// admins only; an unknown or deactivated code answers the same 401 as a
// lookup failure, so the response never reveals whether a code exists.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminCode string `json:"admin_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := strings.TrimSpace(req.AdminCode)
	if code == "" {
		writeError(w, http.StatusBadRequest, "admin code is required")
		return
	}

	admin, err := a.admins.FindActiveByCode(code)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid admin code")
		return
	}
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "invalid admin code")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		AdminID:   admin.ID,
		AdminCode: admin.AdminCode,
		AdminName: admin.AdminName,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}

// Logout destroys the session. Always answers OK, even without a session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session returns the currently authenticated admin. The identity comes
// from the revalidation middleware, so a code deactivated after login
// answers 401 here instead of the cached admin.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}
