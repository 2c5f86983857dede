package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meninadelaco/storefront/internal/auth"
)

type AuthHandler struct {
	Auth auth.Service
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/login", h.login(false))
	r.Post("/auth/admin/login", h.login(true))
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login with adminOnly set implements the admin gate's failure rule:
// a successful sign-in by a non-admin account is immediately signed
// out and reported as an authorization error.
func (h *AuthHandler) login(adminOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		sess, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		if adminOnly && !sess.User.IsAdmin {
			_ = h.Auth.SignOut(r.Context(), sess.Token)
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.SignOut(r.Context(), auth.BearerToken(r)); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.CurrentUser(r.Context(), auth.BearerToken(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}
