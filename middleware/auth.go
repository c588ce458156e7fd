package middleware

import (
	"encoding/json"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/userctx"
)

// Session keys written at login
const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
	SessionRole     = "role"
)

// RequireAuth ensures the user is authenticated and puts the actor in the
// request context. Unauthenticated API calls get a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, _ := sess.Get(SessionUserID).(string)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		username, _ := sess.Get(SessionUsername).(string)
		role, _ := sess.Get(SessionRole).(string)

		ctx := userctx.SetActor(r.Context(), models.Actor{
			UserID:   userID,
			Username: username,
			Role:     models.NormalizeRole(role),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin role. It must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := userctx.GetActor(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !actor.Role.IsPrivileged() {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
