package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/meninadelaco/storefront/internal/catalog"
)

type ctxKey int

const userKey ctxKey = 0

// UserFromContext returns the user attached by RequireAdmin.
func UserFromContext(ctx context.Context) *catalog.User {
	u, _ := ctx.Value(userKey).(*catalog.User)
	return u
}

// RequireAdmin gates the admin subtree: the request proceeds only when
// the bearer token resolves to a user with the admin flag set. A valid
// session without the flag is signed out on the spot.
func RequireAdmin(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			u, err := svc.CurrentUser(r.Context(), token)
			if err != nil || u == nil {
				deny(w, http.StatusUnauthorized, "sign in required")
				return
			}
			if !IsAdmin(u) {
				_ = svc.SignOut(r.Context(), token)
				deny(w, http.StatusForbidden, "admin access required")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func deny(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
